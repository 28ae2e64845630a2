// Package server exposes a budget session over a local HTTP dashboard API
// with a server-sent event stream of accepted commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/model"
	"github.com/sirupsen/logrus"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	UnitLabel    string
	ExportDir    string
}

// Event types.
const (
	EventSnapshot          = "snapshot"
	EventProposalSubmitted = "proposal_submitted"
	EventResourceAdded     = "resource_added"
)

// Event is emitted for every accepted command.
type Event struct {
	ID        int64                   `json:"id"`
	Type      string                  `json:"type"`
	Timestamp time.Time               `json:"timestamp"`
	Proposal  *model.Proposal         `json:"proposal,omitempty"`
	Resource  *model.ResourceAddition `json:"resource,omitempty"`
	Totals    model.Totals            `json:"totals"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time    `json:"started_at"`
	UnitLabel       string       `json:"unit_label"`
	Headings        int          `json:"headings"`
	Totals          model.Totals `json:"totals"`
	EventCount      int          `json:"event_count"`
	SubscriberCount int          `json:"subscriber_count"`
}

// Service serves one session over HTTP.
type Service struct {
	cfg     Config
	session *budget.Session
	log     *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a server for sess with the provided config.
func New(cfg Config, sess *budget.Session, log *logrus.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.UnitLabel == "" {
		cfg.UnitLabel = "B"
	}

	s := &Service{
		cfg:       cfg,
		session:   sess,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	sess.OnCommit(s.record)
	return s
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.WithField("addr", s.cfg.Addr).Info("dashboard listening")

	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("dashboard http server: %w", err)
	}
}

// record turns a commit into an event. It runs under the session's write
// lock, so events are numbered and published in commit order and carry the
// totals of the state the command produced.
func (s *Service) record(c budget.Commit) {
	typ := EventProposalSubmitted
	if c.Resource != nil {
		typ = EventResourceAdded
	}
	totals := budget.Summarize(c.State).Totals

	s.mu.Lock()
	s.nextEventID++
	id := s.nextEventID
	s.mu.Unlock()

	s.publishEvent(Event{
		ID:        id,
		Type:      typ,
		Timestamp: time.Now(),
		Proposal:  c.Proposal,
		Resource:  c.Resource,
		Totals:    totals,
	})
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	snap := s.session.Snapshot()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		UnitLabel:       s.cfg.UnitLabel,
		Headings:        len(snap.Headings()),
		Totals:          budget.Summarize(snap).Totals,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
