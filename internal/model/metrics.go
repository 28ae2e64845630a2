package model

// HeadingSummary holds the derived figures for a single heading.
type HeadingSummary struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	TotalBudget       float64 `json:"total_budget"`
	InitialNegotiable float64 `json:"initial_negotiable"`
	Negotiable        float64 `json:"current_negotiable"`
	ResourcesAdded    float64 `json:"resources_added"`
	Spent             float64 `json:"spent"`
	Remaining         float64 `json:"remaining"`
	Committed         float64 `json:"committed"` // TotalBudget - InitialNegotiable, floored at 0
	ProposalCount     int     `json:"proposal_count"`
}

// Label returns "H<id>".
func (s HeadingSummary) Label() string {
	return HeadingLabel(s.ID)
}

// UsedPercent is the share of the current negotiable envelope already spent.
func (s HeadingSummary) UsedPercent() float64 {
	if s.Negotiable <= 0 {
		return 0
	}
	return s.Spent / s.Negotiable
}

// Totals holds the simulation-wide aggregates.
type Totals struct {
	InitialNegotiable float64 `json:"initial_negotiable"`
	CurrentNegotiable float64 `json:"current_negotiable"`
	Spent             float64 `json:"spent"`
	Remaining         float64 `json:"remaining"`
	NewResources      float64 `json:"new_resources"`
	Proposals         int     `json:"proposals"`
	Resources         int     `json:"resources"`
}

// Summary is the full derived view of a simulation snapshot.
type Summary struct {
	Headings []HeadingSummary `json:"headings"`
	Totals   Totals           `json:"totals"`
}
