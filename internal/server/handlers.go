package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mepalumni/mepbudget/internal/budget"
	"github.com/mepalumni/mepbudget/internal/model"
	"github.com/mepalumni/mepbudget/internal/report"
	"github.com/sirupsen/logrus"
)

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stream", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			r.Get("/status", s.handleStatus)
			r.Get("/committees", s.handleCommittees)
			r.Get("/headings", s.handleHeadings)
			r.Get("/headings/{id}", s.handleHeading)
			r.Get("/events", s.handleEvents)
			r.Get("/export.csv", s.handleExportCSV)
			r.Post("/export", s.handleExportFile)

			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", s.handleListProposals)
				r.Post("/", s.handleSubmitProposal)
			})
			r.Route("/resources", func(r chi.Router) {
				r.Get("/", s.handleListResources)
				r.Post("/", s.handleAddResources)
			})
		})
	})

	return r
}

type proposalRequest struct {
	Name      string     `json:"name"`
	Cost      numberText `json:"cost"`
	Committee string     `json:"committee"`
	HeadingID int        `json:"heading_id"`
}

type resourceRequest struct {
	Amount    numberText `json:"amount"`
	Committee string     `json:"committee"`
	HeadingID int        `json:"heading_id"`
}

type proposalResponse struct {
	Proposal  model.Proposal `json:"proposal"`
	Remaining float64        `json:"remaining"`
	Totals    model.Totals   `json:"totals"`
}

type resourceResponse struct {
	Resource   model.ResourceAddition `json:"resource"`
	Negotiable float64                `json:"current_negotiable"`
	Totals     model.Totals           `json:"totals"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCommittees(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Committees)
}

func (s *Service) handleHeadings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, budget.Summarize(s.session.Snapshot()))
}

func (s *Service) handleHeading(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "heading id must be an integer")
		return
	}
	for _, h := range budget.Summarize(s.session.Snapshot()).Headings {
		if h.ID == id {
			writeJSON(w, http.StatusOK, h)
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("Unknown heading %s.", model.HeadingLabel(id)))
}

func (s *Service) handleListProposals(w http.ResponseWriter, _ *http.Request) {
	log := budget.ProposalLog(s.session.Snapshot())
	if log == nil {
		log = []model.Proposal{}
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Service) handleListResources(w http.ResponseWriter, _ *http.Request) {
	log := budget.ResourceLog(s.session.Snapshot())
	if log == nil {
		log = []model.ResourceAddition{}
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Service) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	c, err := s.session.CommitProposal(budget.ProposalInput{
		Name:      req.Name,
		Cost:      string(req.Cost),
		Committee: req.Committee,
		HeadingID: req.HeadingID,
	})
	if err != nil {
		s.writeRejection(w, r, err)
		return
	}

	p := *c.Proposal
	remaining, _ := budget.RemainingFor(c.State, p.HeadingID)
	s.log.WithFields(logrus.Fields{
		"proposal":  p.ID,
		"heading":   p.HeadingID,
		"committee": p.Committee,
		"cost":      p.Cost,
	}).Info("proposal submitted")

	writeJSON(w, http.StatusCreated, proposalResponse{
		Proposal:  p,
		Remaining: remaining,
		Totals:    budget.Summarize(c.State).Totals,
	})
}

func (s *Service) handleAddResources(w http.ResponseWriter, r *http.Request) {
	var req resourceRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	c, err := s.session.CommitResources(budget.ResourceInput{
		Amount:    string(req.Amount),
		Committee: req.Committee,
		HeadingID: req.HeadingID,
	})
	if err != nil {
		s.writeRejection(w, r, err)
		return
	}

	res := *c.Resource
	h, _ := c.State.Heading(res.HeadingID)
	s.log.WithFields(logrus.Fields{
		"resource":  res.ID,
		"heading":   res.HeadingID,
		"committee": res.Committee,
		"amount":    res.Amount,
	}).Info("resources added")

	writeJSON(w, http.StatusCreated, resourceResponse{
		Resource:   res,
		Negotiable: h.Negotiable,
		Totals:     budget.Summarize(c.State).Totals,
	})
}

func (s *Service) handleExportCSV(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	body := report.CSV(s.session.Snapshot())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		s.log.WithError(err).Error("csv export failed")
	}
}

func (s *Service) handleExportFile(w http.ResponseWriter, _ *http.Request) {
	path, err := report.WriteFile(s.cfg.ExportDir, s.session.Snapshot())
	if err != nil {
		s.log.WithError(err).Error("csv export failed")
		writeError(w, http.StatusInternalServerError, "export_failed", "could not write report")
		return
	}
	s.log.WithField("path", path).Info("report exported")
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current totals immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Totals:    s.snapshotStatus().Totals,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

// writeRejection maps a command error onto 422 for validation failures.
func (s *Service) writeRejection(w http.ResponseWriter, r *http.Request, err error) {
	var ve *budget.ValidationError
	if !errors.As(err, &ve) {
		s.log.WithError(err).Error("command failed")
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	s.log.WithFields(logrus.Fields{
		"path":    r.URL.Path,
		"kind":    ve.KindName(),
		"heading": ve.HeadingID,
	}).Warn("command rejected")

	body := errorResponse{Error: ve.KindName(), Message: ve.Error()}
	if errors.Is(ve, budget.ErrExceedsRemaining) {
		remaining := ve.Remaining
		body.Remaining = &remaining
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
