// Package budget holds the simulation state, the two commands that change
// it, and the aggregates derived from it.
package budget

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mepalumni/mepbudget/internal/model"
)

// remainingTolerance absorbs float drift when comparing a cost against the
// remaining budget so that submitting exactly the remaining amount succeeds.
const remainingTolerance = 1e-9

// State is an immutable snapshot of a simulation. Commands never modify a
// published State; they return a new one.
type State struct {
	catalog   []model.HeadingSpec
	headings  []model.Heading
	resources []model.ResourceAddition
	lastSeq   uint64
}

// ProposalInput is the raw form data for a spending proposal.
type ProposalInput struct {
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Committee string `json:"committee"`
	HeadingID int    `json:"heading_id"`
}

// ResourceInput is the raw form data for a new own resources injection.
type ResourceInput struct {
	Amount    string `json:"amount"`
	Committee string `json:"committee"`
	HeadingID int    `json:"heading_id"`
}

func newState(catalog []model.HeadingSpec) *State {
	headings := make([]model.Heading, len(catalog))
	for i, spec := range catalog {
		headings[i] = model.Heading{
			ID:                spec.ID,
			Name:              spec.Name,
			TotalBudget:       spec.TotalBudget,
			InitialNegotiable: spec.InitialNegotiable,
			Negotiable:        spec.InitialNegotiable,
		}
	}
	return &State{
		catalog:  slices.Clone(catalog),
		headings: headings,
	}
}

// Catalog returns the headings the state was seeded with.
func (s *State) Catalog() []model.HeadingSpec {
	return slices.Clone(s.catalog)
}

// Headings returns the headings in catalog order. Proposal slices are
// shared with the snapshot and must not be modified.
func (s *State) Headings() []model.Heading {
	return slices.Clone(s.headings)
}

// Heading looks up a heading by identifier.
func (s *State) Heading(id int) (model.Heading, bool) {
	i := s.headingIndex(id)
	if i < 0 {
		return model.Heading{}, false
	}
	return s.headings[i], true
}

// Resources returns the resource log in creation order.
func (s *State) Resources() []model.ResourceAddition {
	return slices.Clone(s.resources)
}

func (s *State) headingIndex(id int) int {
	return slices.IndexFunc(s.headings, func(h model.Heading) bool { return h.ID == id })
}

// withProposal validates in against the snapshot and returns the state that
// results from accepting it.
func (s *State) withProposal(in ProposalInput, id string) (*State, model.Proposal, error) {
	name := strings.TrimSpace(in.Name)
	costText := strings.TrimSpace(in.Cost)
	committeeCode := strings.TrimSpace(in.Committee)

	if name == "" || costText == "" || committeeCode == "" || in.HeadingID == 0 {
		return nil, model.Proposal{}, reject(ErrRequiredFields, "")
	}
	cost, ok := parsePositive(costText)
	if !ok {
		return nil, model.Proposal{}, reject(ErrInvalidCost, costText)
	}
	committee, ok := model.ParseCommittee(committeeCode)
	if !ok {
		return nil, model.Proposal{}, reject(ErrUnknownCommittee, committeeCode)
	}
	idx := s.headingIndex(in.HeadingID)
	if idx < 0 {
		return nil, model.Proposal{}, &ValidationError{Kind: ErrUnknownHeading, HeadingID: in.HeadingID}
	}

	target := s.headings[idx]
	remaining := target.Negotiable - spentOf(target)
	if cost-remaining > remainingTolerance {
		return nil, model.Proposal{}, &ValidationError{
			Kind:      ErrExceedsRemaining,
			HeadingID: target.ID,
			Remaining: remaining,
		}
	}

	p := model.Proposal{
		ID:        id,
		Seq:       s.lastSeq + 1,
		Name:      name,
		Cost:      cost,
		Committee: committee,
		HeadingID: target.ID,
	}

	next := s.clone()
	next.lastSeq = p.Seq
	proposals := make([]model.Proposal, len(target.Proposals), len(target.Proposals)+1)
	copy(proposals, target.Proposals)
	target.Proposals = append(proposals, p)
	next.headings[idx] = target
	return next, p, nil
}

// withResource validates in and returns the state with the resource logged
// and the target heading's negotiable budget raised by the amount.
func (s *State) withResource(in ResourceInput, id string) (*State, model.ResourceAddition, error) {
	amountText := strings.TrimSpace(in.Amount)
	committeeCode := strings.TrimSpace(in.Committee)

	if amountText == "" || committeeCode == "" || in.HeadingID == 0 {
		return nil, model.ResourceAddition{}, reject(ErrRequiredFields, "")
	}
	amount, ok := parsePositive(amountText)
	if !ok {
		return nil, model.ResourceAddition{}, reject(ErrInvalidAmount, amountText)
	}
	committee, ok := model.ParseCommittee(committeeCode)
	if !ok {
		return nil, model.ResourceAddition{}, reject(ErrUnknownCommittee, committeeCode)
	}
	idx := s.headingIndex(in.HeadingID)
	if idx < 0 {
		return nil, model.ResourceAddition{}, &ValidationError{Kind: ErrUnknownHeading, HeadingID: in.HeadingID}
	}

	r := model.ResourceAddition{
		ID:        id,
		Seq:       s.lastSeq + 1,
		Amount:    amount,
		Committee: committee,
		HeadingID: in.HeadingID,
	}

	next := s.clone()
	next.lastSeq = r.Seq
	next.headings[idx].Negotiable += amount
	resources := make([]model.ResourceAddition, len(s.resources), len(s.resources)+1)
	copy(resources, s.resources)
	next.resources = append(resources, r)
	return next, r, nil
}

// clone copies the top-level slices so the receiver stays untouched.
func (s *State) clone() *State {
	return &State{
		catalog:   s.catalog,
		headings:  slices.Clone(s.headings),
		resources: s.resources,
		lastSeq:   s.lastSeq,
	}
}

// parsePositive parses a plain decimal literal (digits, one optional point,
// optional exponent) greater than zero. Hex floats, digit separators and
// named values such as "Inf" are refused before ParseFloat sees them.
func parsePositive(text string) (float64, bool) {
	if !isDecimal(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

func isDecimal(text string) bool {
	text = strings.TrimLeft(text, "+-")
	mantissa, exp, hasExp := strings.Cut(strings.ToLower(text), "e")
	if hasExp {
		exp = strings.TrimPrefix(strings.TrimPrefix(exp, "+"), "-")
		if !allDigits(exp) || exp == "" {
			return false
		}
	}
	whole, frac, _ := strings.Cut(mantissa, ".")
	return whole+frac != "" && allDigits(whole) && allDigits(frac)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func spentOf(h model.Heading) float64 {
	var sum float64
	for _, p := range h.Proposals {
		sum += p.Cost
	}
	return sum
}
