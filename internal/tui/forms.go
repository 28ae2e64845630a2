package tui

import (
	"errors"
	"fmt"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/cli"
	"github.com/mepalumni/mepbudget/internal/model"
	"github.com/mepalumni/mepbudget/internal/tui/components"
	"github.com/mepalumni/mepbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type formKind int

const (
	formNone formKind = iota
	formProposal
	formResource
	formSetup
)

// proposalValues and resourceValues live on the heap so huh fields bound to
// them stay valid while the App value is copied between updates.
type proposalValues struct {
	Name      string
	Cost      string
	Committee string
	HeadingID int
}

type resourceValues struct {
	Amount    string
	Committee string
	HeadingID int
}

// newFormValues preselects the first committee and the first heading.
func newFormValues(s *budget.State) (*proposalValues, *resourceValues) {
	committee := string(model.Committees[0])
	heading := 0
	if hs := s.Headings(); len(hs) > 0 {
		heading = hs[0].ID
	}
	return &proposalValues{Committee: committee, HeadingID: heading},
		&resourceValues{Committee: committee, HeadingID: heading}
}

func formTheme() *huh.Theme {
	t := theme.Active
	ht := huh.ThemeBase()

	ht.Focused.Title = lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	ht.Focused.Description = lipgloss.NewStyle().Foreground(t.TextMuted)
	ht.Focused.SelectSelector = lipgloss.NewStyle().Foreground(t.Accent)
	ht.Focused.SelectedOption = lipgloss.NewStyle().Foreground(t.GreenBright)
	ht.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(t.TextPrimary)
	ht.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(t.Red)
	ht.Focused.NoteTitle = lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	ht.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(t.Accent)
	ht.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(t.Accent)
	ht.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(t.TextPrimary)
	ht.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(t.TextDim)

	ht.Blurred.Title = lipgloss.NewStyle().Foreground(t.TextMuted)
	ht.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(t.TextDim)
	ht.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(t.TextMuted)
	ht.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(t.TextDim)
	ht.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(t.TextDim)
	ht.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(t.TextMuted)

	return ht
}

func committeeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.Committees))
	for i, c := range model.Committees {
		opts[i] = huh.NewOption(string(c), string(c))
	}
	return opts
}

func headingOptions(s *budget.State) []huh.Option[int] {
	hs := s.Headings()
	opts := make([]huh.Option[int], len(hs))
	for i, h := range hs {
		opts[i] = huh.NewOption(h.Reference(), h.ID)
	}
	return opts
}

// rejectionNote shows the last rejection above the fields, if any.
func rejectionNote(msg string) []huh.Field {
	if msg == "" {
		return nil
	}
	return []huh.Field{huh.NewNote().Title("Rejected").Description(msg)}
}

// newProposalForm builds the proposal form bound to v. The cost field shows
// the selected heading's remaining budget; the session still decides.
func newProposalForm(sess *budget.Session, v *proposalValues, unit, rejection string) *huh.Form {
	snap := sess.Snapshot()

	remainingHint := func() string {
		remaining, ok := budget.RemainingFor(sess.Snapshot(), v.HeadingID)
		if !ok {
			return ""
		}
		return fmt.Sprintf("Remaining on %s: %s %s MEP€", model.HeadingLabel(v.HeadingID), cli.FormatAmount(remaining), unit)
	}

	fields := rejectionNote(rejection)
	fields = append(fields,
		huh.NewInput().
			Title("Proposal name").
			Placeholder("e.g. Rail corridor upgrade").
			Value(&v.Name),
		huh.NewSelect[string]().
			Title("Committee").
			Options(committeeOptions()...).
			Value(&v.Committee),
		huh.NewSelect[int]().
			Title("Budget heading").
			Options(headingOptions(snap)...).
			Value(&v.HeadingID),
		huh.NewInput().
			Title("Cost (" + unit + " MEP€)").
			Placeholder("0.00").
			DescriptionFunc(remainingHint, &v.HeadingID).
			Value(&v.Cost),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(formTheme()).
		WithShowHelp(false)
}

func newResourceForm(sess *budget.Session, v *resourceValues, unit, rejection string) *huh.Form {
	fields := rejectionNote(rejection)
	fields = append(fields,
		huh.NewInput().
			Title("Amount (" + unit + " MEP€)").
			Placeholder("0.00").
			Value(&v.Amount),
		huh.NewSelect[string]().
			Title("Committee").
			Options(committeeOptions()...).
			Value(&v.Committee),
		huh.NewSelect[int]().
			Title("Budget heading").
			Options(headingOptions(sess.Snapshot())...).
			Value(&v.HeadingID),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(formTheme()).
		WithShowHelp(false)
}

// submitProposal runs the proposal command with the current form values.
// On success the name and cost are cleared; on rejection every value is
// kept and the message is returned for display.
func (a *App) submitProposal() (string, error) {
	v := a.proposal
	p, err := a.session.SubmitProposal(budget.ProposalInput{
		Name:      v.Name,
		Cost:      v.Cost,
		Committee: v.Committee,
		HeadingID: v.HeadingID,
	})
	if err != nil {
		return "", err
	}
	v.Name = ""
	v.Cost = ""
	return fmt.Sprintf("Proposal %q submitted: %s on %s", p.Name,
		cli.FormatMoney(p.Cost, a.unitLabel()), model.HeadingLabel(p.HeadingID)), nil
}

// submitResources runs the add-resources command. On success the amount
// is cleared.
func (a *App) submitResources() (string, error) {
	v := a.resource
	r, err := a.session.AddResources(budget.ResourceInput{
		Amount:    v.Amount,
		Committee: v.Committee,
		HeadingID: v.HeadingID,
	})
	if err != nil {
		return "", err
	}
	v.Amount = ""
	return fmt.Sprintf("Added %s to %s (%s)", cli.FormatMoney(r.Amount, a.unitLabel()),
		model.HeadingLabel(r.HeadingID), r.Committee), nil
}

// rejectionText returns the user-facing message for a command error.
func rejectionText(err error) string {
	var ve *budget.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "Unexpected error: " + err.Error()
}

func (a App) renderForm(cw int) string {
	title := "New proposal"
	switch a.formKind {
	case formResource:
		title = "Add new own resources"
	case formSetup:
		title = "Setup"
	}

	hint := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Background(theme.Active.Surface).
		Render("[Enter] next / submit  [Tab] move  [Esc] cancel")

	return components.AccentCard(title, a.form.View()+"\n"+hint, cw)
}
