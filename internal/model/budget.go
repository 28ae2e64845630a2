// Package model defines domain types for the MEP budget simulation.
package model

import "fmt"

// Committee is the organizational unit a proposal or resource addition is
// attributed to.
type Committee string

// The closed set of committees, in display order.
const (
	CommitteeAFETDROI Committee = "AFET-DROI"
	CommitteeSEDE     Committee = "SEDE"
	CommitteeINTA     Committee = "INTA"
	CommitteeHOUS     Committee = "HOUS"
	CommitteeEUDS     Committee = "EUDS"
	CommitteeITRE     Committee = "ITRE"
	CommitteeJURI     Committee = "JURI"
)

// Committees lists every committee code in display order.
var Committees = []Committee{
	CommitteeAFETDROI,
	CommitteeSEDE,
	CommitteeINTA,
	CommitteeHOUS,
	CommitteeEUDS,
	CommitteeITRE,
	CommitteeJURI,
}

// ParseCommittee returns the committee matching code exactly.
func ParseCommittee(code string) (Committee, bool) {
	for _, c := range Committees {
		if string(c) == code {
			return c, true
		}
	}
	return "", false
}

// HeadingSpec is one row of the startup catalog.
type HeadingSpec struct {
	ID                int     `toml:"id"`
	Name              string  `toml:"name"`
	TotalBudget       float64 `toml:"total_budget"`
	InitialNegotiable float64 `toml:"initial_negotiable"`
}

// Heading is a budget category with a fixed allocation and a negotiable
// envelope that grows as new own resources are added.
type Heading struct {
	ID                int
	Name              string
	TotalBudget       float64
	InitialNegotiable float64
	Negotiable        float64
	Proposals         []Proposal
}

// Label returns the short "H<id>" form used across lists and exports.
func (h Heading) Label() string {
	return HeadingLabel(h.ID)
}

// Reference returns "H<id>: <name>".
func (h Heading) Reference() string {
	return fmt.Sprintf("%s: %s", h.Label(), h.Name)
}

// HeadingLabel formats a heading identifier as "H<id>".
func HeadingLabel(id int) string {
	return fmt.Sprintf("H%d", id)
}

// Proposal is a request to spend from a heading's negotiable budget.
// Seq orders proposals and resource additions by creation.
type Proposal struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Name      string    `json:"name"`
	Cost      float64   `json:"cost"`
	Committee Committee `json:"committee"`
	HeadingID int       `json:"heading_id"`
}

// ResourceAddition is an injection of new own resources into a heading.
type ResourceAddition struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Amount    float64   `json:"amount"`
	Committee Committee `json:"committee"`
	HeadingID int       `json:"heading_id"`
}
