package budget

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mepalumni/mepbudget/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	n := 0
	s, err := NewSession(DefaultCatalog(), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%04d", n)
	}))
	require.NoError(t, err)
	return s
}

func proposal(name, cost string, headingID int) ProposalInput {
	return ProposalInput{Name: name, Cost: cost, Committee: string(model.CommitteeSEDE), HeadingID: headingID}
}

func resource(amount string, headingID int) ResourceInput {
	return ResourceInput{Amount: amount, Committee: string(model.CommitteeITRE), HeadingID: headingID}
}

func requireRejected(t *testing.T, err error, kind error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestNewSession_RejectsBadCatalog(t *testing.T) {
	_, err := NewSession(nil)
	assert.Error(t, err)

	_, err = NewSession([]model.HeadingSpec{
		{ID: 1, Name: "A", TotalBudget: 10, InitialNegotiable: 5},
		{ID: 1, Name: "B", TotalBudget: 10, InitialNegotiable: 5},
	})
	assert.ErrorContains(t, err, "duplicate heading id 1")

	_, err = NewSession([]model.HeadingSpec{{ID: 0, Name: "A"}})
	assert.ErrorContains(t, err, "must be positive")
}

func TestNewSession_SeedsNegotiableFromCatalog(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	headings := snap.Headings()
	require.Len(t, headings, 7)
	for i, spec := range DefaultCatalog() {
		assert.Equal(t, spec.ID, headings[i].ID)
		assert.Equal(t, spec.InitialNegotiable, headings[i].Negotiable)
		assert.Empty(t, headings[i].Proposals)
	}
}

func TestSubmitProposal_Accepted(t *testing.T) {
	s := newTestSession(t)

	p, err := s.SubmitProposal(proposal("  Green tech fund ", "5.5", 1))
	require.NoError(t, err)
	assert.Equal(t, "prop-0001", p.ID)
	assert.Equal(t, uint64(1), p.Seq)
	assert.Equal(t, "Green tech fund", p.Name)
	assert.Equal(t, 5.5, p.Cost)
	assert.Equal(t, model.CommitteeSEDE, p.Committee)

	h, ok := s.Snapshot().Heading(1)
	require.True(t, ok)
	require.Len(t, h.Proposals, 1)
	assert.Equal(t, p, h.Proposals[0])

	// Other headings are untouched.
	other, _ := s.Snapshot().Heading(2)
	assert.Empty(t, other.Proposals)
}

func TestSubmitProposal_ExactRemainingIsAccepted(t *testing.T) {
	s := newTestSession(t)

	_, err := s.SubmitProposal(proposal("Border A", "3.3", 4))
	require.NoError(t, err)
	_, err = s.SubmitProposal(proposal("Border B", "3.3", 4))
	require.NoError(t, err)

	// 10 - 6.6 leaves float drift; the boundary must still be inclusive.
	_, err = s.SubmitProposal(proposal("Border C", "3.4", 4))
	require.NoError(t, err)

	remaining, ok := RemainingFor(s.Snapshot(), 4)
	require.True(t, ok)
	assert.InDelta(t, 0, remaining, 1e-9)
}

func TestSubmitProposal_RemainingPlusCentIsRejected(t *testing.T) {
	s := newTestSession(t)
	before := s.Snapshot()

	_, err := s.SubmitProposal(proposal("Too much", "70.01", 1))
	ve := requireRejected(t, err, ErrExceedsRemaining)
	assert.Equal(t, 70.0, ve.Remaining)
	assert.Equal(t, 1, ve.HeadingID)
	assert.Equal(t, "Cost exceeds remaining negotiable budget of 70.00 B MEP€ for this heading.", ve.Error())

	assert.Same(t, before, s.Snapshot(), "rejected command must not swap state")
}

func TestSubmitProposal_ReportsExactRemaining(t *testing.T) {
	s := newTestSession(t)
	_, err := s.SubmitProposal(proposal("First", "12.5", 3))
	require.NoError(t, err)

	_, err = s.SubmitProposal(proposal("Second", "20", 3))
	ve := requireRejected(t, err, ErrExceedsRemaining)
	assert.Equal(t, 12.5, ve.Remaining)
	assert.Contains(t, ve.Error(), "12.50 B MEP€")
}

func TestSubmitProposal_ValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		in   ProposalInput
		kind error
	}{
		{"blank name", ProposalInput{Name: "  ", Cost: "1", Committee: "SEDE", HeadingID: 1}, ErrRequiredFields},
		{"blank cost", ProposalInput{Name: "x", Cost: "", Committee: "SEDE", HeadingID: 1}, ErrRequiredFields},
		{"blank committee", ProposalInput{Name: "x", Cost: "1", HeadingID: 1}, ErrRequiredFields},
		{"no heading", ProposalInput{Name: "x", Cost: "1", Committee: "SEDE"}, ErrRequiredFields},
		{"missing beats invalid", ProposalInput{Name: "", Cost: "abc", Committee: "SEDE", HeadingID: 1}, ErrRequiredFields},
		{"text cost", proposal("x", "abc", 1), ErrInvalidCost},
		{"zero cost", proposal("x", "0", 1), ErrInvalidCost},
		{"negative cost", proposal("x", "-4", 1), ErrInvalidCost},
		{"NaN cost", proposal("x", "NaN", 1), ErrInvalidCost},
		{"infinite cost", proposal("x", "Inf", 1), ErrInvalidCost},
		{"hex float cost", proposal("x", "0x1p4", 1), ErrInvalidCost},
		{"hex with separator", proposal("x", "0x_1p4", 1), ErrInvalidCost},
		{"digit separator", proposal("x", "1_0", 1), ErrInvalidCost},
		{"bare exponent", proposal("x", "1e", 1), ErrInvalidCost},
		{"invalid beats exceeds", proposal("x", "-1000", 1), ErrInvalidCost},
		{"unknown committee", ProposalInput{Name: "x", Cost: "1", Committee: "ECON", HeadingID: 1}, ErrUnknownCommittee},
		{"unknown heading", proposal("x", "1", 99), ErrUnknownHeading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			before := s.Snapshot()

			_, err := s.SubmitProposal(tt.in)
			requireRejected(t, err, tt.kind)
			assert.Same(t, before, s.Snapshot())
		})
	}
}

func TestAddResources_RaisesNegotiable(t *testing.T) {
	s := newTestSession(t)

	r, err := s.AddResources(resource("10.5", 5))
	require.NoError(t, err)
	assert.Equal(t, "res-0001", r.ID)
	assert.Equal(t, 5, r.HeadingID)

	snap := s.Snapshot()
	h, _ := snap.Heading(5)
	assert.Equal(t, 110.5, h.Negotiable)
	assert.Equal(t, 100.0, h.InitialNegotiable)

	log := snap.Resources()
	require.Len(t, log, 1)
	assert.Equal(t, 5, log[0].HeadingID)
	assert.Equal(t, 10.5, log[0].Amount)
}

func TestAddResources_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   ResourceInput
		kind error
	}{
		{"zero", resource("0", 5), ErrInvalidAmount},
		{"negative", resource("-3", 5), ErrInvalidAmount},
		{"text", resource("lots", 5), ErrInvalidAmount},
		{"hex float", resource("0x1p4", 5), ErrInvalidAmount},
		{"digit separator", resource("1_0", 5), ErrInvalidAmount},
		{"lone point", resource(".", 5), ErrInvalidAmount},
		{"blank amount", resource("", 5), ErrRequiredFields},
		{"no heading", resource("1", 0), ErrRequiredFields},
		{"blank committee", ResourceInput{Amount: "1", HeadingID: 5}, ErrRequiredFields},
		{"unknown committee", ResourceInput{Amount: "1", Committee: "XXX", HeadingID: 5}, ErrUnknownCommittee},
		{"unknown heading", resource("1", 42), ErrUnknownHeading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			before := s.Snapshot()

			_, err := s.AddResources(tt.in)
			requireRejected(t, err, tt.kind)
			assert.Same(t, before, s.Snapshot())
			assert.Empty(t, s.Snapshot().Resources())
		})
	}
}

func TestSubmitProposal_DecimalForms(t *testing.T) {
	for text, want := range map[string]float64{
		"12":     12,
		"12.5":   12.5,
		".5":     0.5,
		"3.":     3,
		"+2":     2,
		"1e1":    10,
		"2.5E-1": 0.25,
	} {
		t.Run(text, func(t *testing.T) {
			s := newTestSession(t)
			p, err := s.SubmitProposal(proposal("x", text, 1))
			require.NoError(t, err)
			assert.Equal(t, want, p.Cost)
		})
	}
}

func TestAddResources_UnlocksEmptyHeading(t *testing.T) {
	s := newTestSession(t)

	_, err := s.SubmitProposal(proposal("Admin reform", "1", 7))
	requireRejected(t, err, ErrExceedsRemaining)

	_, err = s.AddResources(resource("4", 7))
	require.NoError(t, err)

	_, err = s.SubmitProposal(proposal("Admin reform", "4", 7))
	require.NoError(t, err)
}

func TestSnapshotsAreImmutable(t *testing.T) {
	s := newTestSession(t)
	before := s.Snapshot()

	_, err := s.SubmitProposal(proposal("A", "1", 1))
	require.NoError(t, err)
	_, err = s.AddResources(resource("2", 1))
	require.NoError(t, err)

	h, _ := before.Heading(1)
	assert.Empty(t, h.Proposals)
	assert.Equal(t, 70.0, h.Negotiable)
	assert.Empty(t, before.Resources())

	after, _ := s.Snapshot().Heading(1)
	assert.Len(t, after.Proposals, 1)
	assert.Equal(t, 72.0, after.Negotiable)
}

func TestNegotiableInvariantHolds(t *testing.T) {
	s := newTestSession(t)
	steps := []func() error{
		func() error { _, err := s.AddResources(resource("3", 2)); return err },
		func() error { _, err := s.SubmitProposal(proposal("a", "20", 2)); return err },
		func() error { _, err := s.AddResources(resource("0.25", 2)); return err },
		func() error { _, err := s.AddResources(resource("7", 6)); return err },
		func() error { _, err := s.SubmitProposal(proposal("b", "1000", 2)); return err },
		func() error { _, err := s.AddResources(resource("-1", 6)); return err },
	}

	for _, step := range steps {
		_ = step()

		snap := s.Snapshot()
		added := ResourcesByHeading(snap)
		for _, h := range snap.Headings() {
			assert.InDelta(t, h.InitialNegotiable+added[h.ID], h.Negotiable, 1e-9, "heading %d", h.ID)
			assert.LessOrEqual(t, spentOf(h), h.Negotiable+remainingTolerance, "heading %d", h.ID)
		}
	}
}

func TestConcurrentSubmissionsNeverOverspend(t *testing.T) {
	s, err := NewSession(DefaultCatalog())
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.SubmitProposal(proposal(fmt.Sprintf("p%d", i), "1", 5)); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, accepted)
	remaining, _ := RemainingFor(s.Snapshot(), 5)
	assert.InDelta(t, 0, remaining, 1e-9)

	ids := make(map[string]struct{})
	for _, p := range ProposalLog(s.Snapshot()) {
		assert.True(t, strings.HasPrefix(p.ID, "prop-"))
		ids[p.ID] = struct{}{}
	}
	assert.Len(t, ids, 100)
}

func TestOnCommitSeesProducedState(t *testing.T) {
	s := newTestSession(t)

	var commits []Commit
	s.OnCommit(func(c Commit) { commits = append(commits, c) })

	c, err := s.CommitProposal(proposal("Rail", "12.25", 1))
	require.NoError(t, err)
	require.NotNil(t, c.Proposal)
	assert.Nil(t, c.Resource)
	assert.Same(t, s.Snapshot(), c.State)

	_, err = s.SubmitProposal(proposal("Too big", "999", 1))
	requireRejected(t, err, ErrExceedsRemaining)

	_, err = s.AddResources(resource("4", 7))
	require.NoError(t, err)

	require.Len(t, commits, 2)
	remaining, _ := RemainingFor(commits[0].State, 1)
	assert.Equal(t, 57.75, remaining)
	require.NotNil(t, commits[1].Resource)
	assert.Equal(t, uint64(2), commits[1].Resource.Seq)
	h7, _ := commits[1].State.Heading(7)
	assert.Equal(t, 4.0, h7.Negotiable)
}
