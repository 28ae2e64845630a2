package budget

import (
	"errors"
	"fmt"

	"github.com/mepalumni/mepbudget/internal/model"
)

// Rejection kinds. A *ValidationError matches its kind with errors.Is.
var (
	ErrRequiredFields   = errors.New("required fields missing")
	ErrInvalidCost      = errors.New("invalid cost")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUnknownCommittee = errors.New("unknown committee")
	ErrUnknownHeading   = errors.New("unknown heading")
	ErrExceedsRemaining = errors.New("exceeds remaining budget")
)

// MessageUnit is the unit quoted in rejection messages. It is fixed so the
// message text does not depend on display settings.
const MessageUnit = "B MEP€"

// ValidationError reports why a command was rejected. Commands that return
// one have not changed the session state.
type ValidationError struct {
	Kind      error
	Field     string
	HeadingID int
	Remaining float64 // set for ErrExceedsRemaining
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrRequiredFields:
		return "All fields are required."
	case ErrInvalidCost:
		return "Cost must be a positive number."
	case ErrInvalidAmount:
		return "Amount must be a positive number."
	case ErrUnknownCommittee:
		return fmt.Sprintf("Unknown committee %q.", e.Field)
	case ErrUnknownHeading:
		return fmt.Sprintf("Unknown heading %s.", model.HeadingLabel(e.HeadingID))
	case ErrExceedsRemaining:
		return fmt.Sprintf("Cost exceeds remaining negotiable budget of %.2f %s for this heading.", e.Remaining, MessageUnit)
	}
	return e.Kind.Error()
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// KindName returns the short machine-readable name of the rejection,
// e.g. "exceeds remaining budget".
func (e *ValidationError) KindName() string {
	return e.Kind.Error()
}

func reject(kind error, field string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field}
}
