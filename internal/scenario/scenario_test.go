package scenario

import (
	"path/filepath"
	"testing"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return sc
}

func TestLoad(t *testing.T) {
	sc := load(t, "session.toml")

	assert.Equal(t, "Committee week", sc.Title)
	require.Len(t, sc.Steps, 5)
	assert.Equal(t, KindResource, sc.Steps[1].Kind)
	assert.Equal(t, "12.5", numberText(sc.Steps[2].Cost))
	assert.Equal(t, "20", numberText(sc.Steps[0].Cost))
	assert.Equal(t, "10.5", numberText(sc.Steps[1].Amount))
	assert.Len(t, sc.Catalog(), 7)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "badkind.toml"))
	assert.ErrorContains(t, err, `unknown kind "transfer"`)

	_, err = Load(filepath.Join("testdata", "unknownkey.toml"))
	assert.ErrorContains(t, err, "unknown keys step.priority")

	_, err = Load(filepath.Join("testdata", "missing.toml"))
	assert.Error(t, err)
}

func TestRun_CollectsRejections(t *testing.T) {
	sess, res, err := load(t, "session.toml").Run(false)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Applied())
	require.Len(t, res.Rejected, 2)

	assert.Equal(t, 2, res.Rejected[0].Index)
	assert.ErrorIs(t, res.Rejected[0].Err, budget.ErrExceedsRemaining)
	assert.Equal(t, 10.0, res.Rejected[0].Err.Remaining)

	assert.Equal(t, 4, res.Rejected[1].Index)
	assert.ErrorIs(t, res.Rejected[1].Err, budget.ErrInvalidAmount)

	sum := budget.Summarize(sess.Snapshot())
	assert.Equal(t, 130.5, sum.Totals.Spent)
	assert.Equal(t, 10.5, sum.Totals.NewResources)
	assert.Equal(t, 0.0, sum.Headings[4].Remaining)
}

func TestRun_StrictStopsAtFirstRejection(t *testing.T) {
	sess, res, err := load(t, "session.toml").Run(true)
	require.Error(t, err)
	assert.ErrorIs(t, err, budget.ErrExceedsRemaining)
	assert.ErrorContains(t, err, "step 3 (proposal) rejected")

	assert.Equal(t, 2, res.Applied())
	assert.Len(t, res.Rejected, 1)
	assert.Empty(t, budget.ProposalLog(sess.Snapshot())[1:], "only the first proposal was accepted")
}

func TestRun_CustomCatalog(t *testing.T) {
	sess, res, err := load(t, "catalog.toml").Run(false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied())

	headings := sess.Snapshot().Headings()
	require.Len(t, headings, 2)
	assert.Equal(t, "Outreach", headings[1].Name)

	remaining, ok := budget.RemainingFor(sess.Snapshot(), 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, remaining)
}

func TestValidate_BadCatalog(t *testing.T) {
	sc := &Scenario{Headings: budget.DefaultCatalog()[:1]}
	sc.Headings = append(sc.Headings, sc.Headings[0])
	assert.ErrorContains(t, sc.Validate(), "duplicate heading id")

	sc = &Scenario{Steps: []Step{{Name: "x"}}}
	assert.ErrorContains(t, sc.Validate(), "step 1: missing kind")
}

func TestNumberText(t *testing.T) {
	assert.Equal(t, "", numberText(nil))
	assert.Equal(t, "abc", numberText("abc"))
	assert.Equal(t, "7", numberText(int64(7)))
	assert.Equal(t, "0.25", numberText(0.25))
	assert.Equal(t, "true", numberText(true))
}
