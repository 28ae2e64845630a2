// Package scenario replays scripted proposals and resource additions
// against a fresh budget session.
package scenario

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/model"
)

// Step kinds.
const (
	KindProposal = "proposal"
	KindResource = "resource"
)

// Scenario is a scripted simulation loaded from TOML. Headings, when
// present, replace the default catalog.
type Scenario struct {
	Title    string              `toml:"title"`
	Headings []model.HeadingSpec `toml:"heading"`
	Steps    []Step              `toml:"step"`
}

// Step is one command. Cost and Amount accept TOML numbers or strings so
// that malformed values reach the same validation as form input.
type Step struct {
	Kind      string `toml:"kind"`
	Name      string `toml:"name"`
	Cost      any    `toml:"cost"`
	Amount    any    `toml:"amount"`
	Committee string `toml:"committee"`
	Heading   int    `toml:"heading"`
}

// Rejection records a step the session refused.
type Rejection struct {
	Index int // zero-based position in Steps
	Step  Step
	Err   *budget.ValidationError
}

// Result summarizes a replay.
type Result struct {
	Proposals []model.Proposal
	Resources []model.ResourceAddition
	Rejected  []Rejection
}

// Applied returns the number of accepted steps.
func (r Result) Applied() int {
	return len(r.Proposals) + len(r.Resources)
}

// Load reads and checks a scenario file.
func Load(path string) (*Scenario, error) {
	var sc Scenario
	md, err := toml.DecodeFile(path, &sc)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing scenario: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the file structure. Field values are left to the session.
func (sc *Scenario) Validate() error {
	if len(sc.Headings) > 0 {
		if err := budget.ValidateCatalog(sc.Headings); err != nil {
			return fmt.Errorf("scenario headings: %w", err)
		}
	}
	for i, st := range sc.Steps {
		switch st.Kind {
		case KindProposal, KindResource:
		case "":
			return fmt.Errorf("step %d: missing kind", i+1)
		default:
			return fmt.Errorf("step %d: unknown kind %q", i+1, st.Kind)
		}
	}
	return nil
}

// Catalog returns the headings the scenario runs against.
func (sc *Scenario) Catalog() []model.HeadingSpec {
	if len(sc.Headings) == 0 {
		return budget.DefaultCatalog()
	}
	return sc.Headings
}

// Apply replays the steps in order against sess. Rejected steps leave the
// session unchanged and are collected; in strict mode the first rejection
// stops the replay and is returned as an error.
func (sc *Scenario) Apply(sess *budget.Session, strict bool) (Result, error) {
	var res Result
	for i, st := range sc.Steps {
		var err error
		switch st.Kind {
		case KindProposal:
			var p model.Proposal
			p, err = sess.SubmitProposal(budget.ProposalInput{
				Name:      st.Name,
				Cost:      numberText(st.Cost),
				Committee: st.Committee,
				HeadingID: st.Heading,
			})
			if err == nil {
				res.Proposals = append(res.Proposals, p)
			}
		case KindResource:
			var r model.ResourceAddition
			r, err = sess.AddResources(budget.ResourceInput{
				Amount:    numberText(st.Amount),
				Committee: st.Committee,
				HeadingID: st.Heading,
			})
			if err == nil {
				res.Resources = append(res.Resources, r)
			}
		default:
			return res, fmt.Errorf("step %d: unknown kind %q", i+1, st.Kind)
		}

		if err == nil {
			continue
		}
		var ve *budget.ValidationError
		if !errors.As(err, &ve) {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Rejected = append(res.Rejected, Rejection{Index: i, Step: st, Err: ve})
		if strict {
			return res, fmt.Errorf("step %d (%s) rejected: %w", i+1, st.Kind, ve)
		}
	}
	return res, nil
}

// Run seeds a session from the scenario catalog and applies every step.
func (sc *Scenario) Run(strict bool, opts ...budget.Option) (*budget.Session, Result, error) {
	sess, err := budget.NewSession(sc.Catalog(), opts...)
	if err != nil {
		return nil, Result{}, err
	}
	res, err := sc.Apply(sess, strict)
	return sess, res, err
}

func numberText(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}
