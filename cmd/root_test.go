package cmd

import (
	"testing"

	"github.com/mepalumni/mepbudget/internal/budget"
)

func TestNewSessionDefaultCatalog(t *testing.T) {
	flagScenario = ""
	sess, err := newSession()
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if got, want := len(sess.Snapshot().Headings()), len(budget.DefaultCatalog()); got != want {
		t.Errorf("headings = %d, want %d", got, want)
	}
}

func TestNewSessionFromScenario(t *testing.T) {
	flagScenario = "../scenarios/plenary.toml"
	flagQuiet = true
	t.Cleanup(func() {
		flagScenario = ""
		flagQuiet = false
	})

	sess, err := newSession()
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if len(budget.ProposalLog(sess.Snapshot())) == 0 {
		t.Error("scenario proposals were not applied")
	}
}

func TestNewSessionMissingScenario(t *testing.T) {
	flagScenario = "does-not-exist.toml"
	t.Cleanup(func() { flagScenario = "" })

	if _, err := newSession(); err == nil {
		t.Error("expected an error for a missing scenario file")
	}
}
