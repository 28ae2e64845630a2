package budget

import (
	"slices"

	"github.com/mepalumni/mepbudget/internal/model"
)

// Summarize computes per-heading and global aggregates from a snapshot.
func Summarize(s *State) model.Summary {
	added := ResourcesByHeading(s)

	summary := model.Summary{
		Headings: make([]model.HeadingSummary, 0, len(s.headings)),
	}
	for _, spec := range s.catalog {
		summary.Totals.InitialNegotiable += spec.InitialNegotiable
	}

	for _, h := range s.headings {
		spent := spentOf(h)
		committed := h.TotalBudget - h.InitialNegotiable
		if committed < 0 {
			committed = 0
		}
		summary.Headings = append(summary.Headings, model.HeadingSummary{
			ID:                h.ID,
			Name:              h.Name,
			TotalBudget:       h.TotalBudget,
			InitialNegotiable: h.InitialNegotiable,
			Negotiable:        h.Negotiable,
			ResourcesAdded:    added[h.ID],
			Spent:             spent,
			Remaining:         h.Negotiable - spent,
			Committed:         committed,
			ProposalCount:     len(h.Proposals),
		})

		summary.Totals.CurrentNegotiable += h.Negotiable
		summary.Totals.Spent += spent
		summary.Totals.Proposals += len(h.Proposals)
	}
	summary.Totals.Remaining = summary.Totals.CurrentNegotiable - summary.Totals.Spent

	for _, r := range s.resources {
		summary.Totals.NewResources += r.Amount
	}
	summary.Totals.Resources = len(s.resources)

	return summary
}

// RemainingFor returns the heading's current negotiable budget minus what
// its proposals already spend.
func RemainingFor(s *State, headingID int) (float64, bool) {
	h, ok := s.Heading(headingID)
	if !ok {
		return 0, false
	}
	return h.Negotiable - spentOf(h), true
}

// ResourcesByHeading sums resource additions per target heading.
func ResourcesByHeading(s *State) map[int]float64 {
	added := make(map[int]float64, len(s.headings))
	for _, r := range s.resources {
		added[r.HeadingID] += r.Amount
	}
	return added
}

// ProposalLog flattens every heading's proposals, newest first.
func ProposalLog(s *State) []model.Proposal {
	var log []model.Proposal
	for _, h := range s.headings {
		log = append(log, h.Proposals...)
	}
	slices.SortFunc(log, func(a, b model.Proposal) int {
		return compareSeqDesc(a.Seq, b.Seq)
	})
	return log
}

// ResourceLog returns the resource additions, newest first.
func ResourceLog(s *State) []model.ResourceAddition {
	log := slices.Clone(s.resources)
	slices.SortFunc(log, func(a, b model.ResourceAddition) int {
		return compareSeqDesc(a.Seq, b.Seq)
	})
	return log
}

// HeadingReference returns "H<id>: <name>" for a heading in s, or
// "H<id>: Unknown" when the identifier is not part of the catalog.
func HeadingReference(s *State, id int) string {
	if h, ok := s.Heading(id); ok {
		return h.Reference()
	}
	return model.HeadingLabel(id) + ": Unknown"
}

func compareSeqDesc(a, b uint64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
