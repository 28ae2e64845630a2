package budget

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mepalumni/mepbudget/internal/model"
)

// Session owns the current simulation snapshot. Commands are serialized by
// a write lock and publish a fresh State; readers work on snapshots.
type Session struct {
	mu       sync.RWMutex
	state    *State
	newID    func() string
	onCommit []func(Commit)
}

// Commit describes one accepted command together with the state it
// produced. Exactly one of Proposal and Resource is set.
type Commit struct {
	State    *State
	Proposal *model.Proposal
	Resource *model.ResourceAddition
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator overrides the record identifier source (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		s.newID = fn
	}
}

// NewSession seeds a session from the given catalog.
func NewSession(catalog []model.HeadingSpec, opts ...Option) (*Session, error) {
	if err := ValidateCatalog(catalog); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	s := &Session{
		state: newState(catalog),
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Snapshot returns the current immutable state.
func (s *Session) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// OnCommit registers fn to run after every accepted command. Hooks run
// while the session's write lock is held, in commit order, so they must not
// call back into the session.
func (s *Session) OnCommit(fn func(Commit)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = append(s.onCommit, fn)
}

// SubmitProposal validates and records a spending proposal. On error the
// state is unchanged and the error is a *ValidationError.
func (s *Session) SubmitProposal(in ProposalInput) (model.Proposal, error) {
	c, err := s.CommitProposal(in)
	if err != nil {
		return model.Proposal{}, err
	}
	return *c.Proposal, nil
}

// CommitProposal is SubmitProposal returning the state the proposal
// produced.
func (s *Session) CommitProposal(in ProposalInput) (Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, p, err := s.state.withProposal(in, "prop-"+s.newID())
	if err != nil {
		return Commit{}, err
	}
	return s.publish(Commit{State: next, Proposal: &p}), nil
}

// AddResources records a new own resources injection and raises the target
// heading's negotiable budget in the same state swap.
func (s *Session) AddResources(in ResourceInput) (model.ResourceAddition, error) {
	c, err := s.CommitResources(in)
	if err != nil {
		return model.ResourceAddition{}, err
	}
	return *c.Resource, nil
}

// CommitResources is AddResources returning the state the addition
// produced.
func (s *Session) CommitResources(in ResourceInput) (Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, r, err := s.state.withResource(in, "res-"+s.newID())
	if err != nil {
		return Commit{}, err
	}
	return s.publish(Commit{State: next, Resource: &r}), nil
}

// publish swaps in c.State and runs the hooks. Callers hold s.mu.
func (s *Session) publish(c Commit) Commit {
	s.state = c.State
	for _, fn := range s.onCommit {
		fn(c)
	}
	return c
}
