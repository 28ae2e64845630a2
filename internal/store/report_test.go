package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *ReportDB {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "nested", "report.db"))
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func populatedState(t *testing.T) *budget.State {
	t.Helper()
	s, err := budget.NewSession(budget.DefaultCatalog())
	require.NoError(t, err)
	_, err = s.SubmitProposal(budget.ProposalInput{Name: "Chips", Cost: "20", Committee: "ITRE", HeadingID: 1})
	require.NoError(t, err)
	_, err = s.SubmitProposal(budget.ProposalInput{Name: "Frontex", Cost: "4", Committee: "JURI", HeadingID: 4})
	require.NoError(t, err)
	_, err = s.AddResources(budget.ResourceInput{Amount: "2.5", Committee: "INTA", HeadingID: 4})
	require.NoError(t, err)
	return s.Snapshot()
}

func count(t *testing.T, r *ReportDB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestReportDB_Write(t *testing.T) {
	r := openTestDB(t)
	require.NoError(t, r.Write(populatedState(t), "B"))

	assert.Equal(t, 7, count(t, r, "headings"))
	assert.Equal(t, 2, count(t, r, "proposals"))
	assert.Equal(t, 1, count(t, r, "resources"))

	var negotiable, spent, remaining, added float64
	err := r.db.QueryRow(`SELECT current_negotiable, spent, remaining, resources_added
		FROM headings WHERE heading_id = 4`).Scan(&negotiable, &spent, &remaining, &added)
	require.NoError(t, err)
	assert.Equal(t, 12.5, negotiable)
	assert.Equal(t, 4.0, spent)
	assert.Equal(t, 8.5, remaining)
	assert.Equal(t, 2.5, added)

	var committed float64
	require.NoError(t, r.db.QueryRow("SELECT committed FROM headings WHERE heading_id = 1").Scan(&committed))
	assert.Equal(t, 190.0, committed)

	var exportedAt, unit, spentTotal string
	require.NoError(t, r.db.QueryRow("SELECT value FROM meta WHERE key = 'exported_at'").Scan(&exportedAt))
	require.NoError(t, r.db.QueryRow("SELECT value FROM meta WHERE key = 'unit_label'").Scan(&unit))
	require.NoError(t, r.db.QueryRow("SELECT value FROM meta WHERE key = 'total_spent'").Scan(&spentTotal))
	assert.Equal(t, "2026-03-01T09:30:00Z", exportedAt)
	assert.Equal(t, "B", unit)
	assert.Equal(t, "24.00", spentTotal)
}

func TestReportDB_WriteReplacesPreviousExport(t *testing.T) {
	r := openTestDB(t)
	require.NoError(t, r.Write(populatedState(t), "B"))

	fresh, err := budget.NewSession(budget.DefaultCatalog())
	require.NoError(t, err)
	require.NoError(t, r.Write(fresh.Snapshot(), "B"))

	assert.Equal(t, 7, count(t, r, "headings"))
	assert.Zero(t, count(t, r, "proposals"))
	assert.Zero(t, count(t, r, "resources"))
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, WriteReport(path, populatedState(t), "B"))

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	var name string
	require.NoError(t, r.db.QueryRow("SELECT name FROM proposals ORDER BY seq DESC LIMIT 1").Scan(&name))
	assert.Equal(t, "Frontex", name)
}
