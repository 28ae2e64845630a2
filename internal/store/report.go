// Package store writes simulation snapshots to a SQLite report database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mepalumni/mepbudget/internal/budget"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ReportDB is a SQLite file holding one exported snapshot.
type ReportDB struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the report database at the given path.
func Open(dbPath string) (*ReportDB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating report dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening report db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &ReportDB{db: db, now: time.Now}, nil
}

// Close closes the report database.
func (r *ReportDB) Close() error {
	return r.db.Close()
}

// Write replaces the database contents with the snapshot s. The whole
// export runs in one transaction.
func (r *ReportDB) Write(s *budget.State, unitLabel string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"proposals", "resources", "headings", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	sum := budget.Summarize(s)
	for _, h := range sum.Headings {
		_, err = tx.Exec(`INSERT INTO headings
			(heading_id, name, total_budget, initial_negotiable, resources_added,
			 current_negotiable, committed, spent, remaining)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.TotalBudget, h.InitialNegotiable, h.ResourcesAdded,
			h.Negotiable, h.Committed, h.Spent, h.Remaining,
		)
		if err != nil {
			return fmt.Errorf("inserting heading %d: %w", h.ID, err)
		}
	}

	for _, p := range budget.ProposalLog(s) {
		_, err = tx.Exec(`INSERT INTO proposals
			(proposal_id, seq, name, committee, cost, heading_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, int64(p.Seq), p.Name, string(p.Committee), p.Cost, p.HeadingID,
		)
		if err != nil {
			return fmt.Errorf("inserting proposal %s: %w", p.ID, err)
		}
	}

	for _, res := range budget.ResourceLog(s) {
		_, err = tx.Exec(`INSERT INTO resources
			(resource_id, seq, committee, amount, heading_id)
			VALUES (?, ?, ?, ?, ?)`,
			res.ID, int64(res.Seq), string(res.Committee), res.Amount, res.HeadingID,
		)
		if err != nil {
			return fmt.Errorf("inserting resource %s: %w", res.ID, err)
		}
	}

	meta := map[string]string{
		"exported_at":              r.now().UTC().Format(time.RFC3339),
		"unit_label":               unitLabel,
		"total_initial_negotiable": fmt.Sprintf("%.2f", sum.Totals.InitialNegotiable),
		"total_current_negotiable": fmt.Sprintf("%.2f", sum.Totals.CurrentNegotiable),
		"total_spent":              fmt.Sprintf("%.2f", sum.Totals.Spent),
		"total_remaining":          fmt.Sprintf("%.2f", sum.Totals.Remaining),
		"total_new_resources":      fmt.Sprintf("%.2f", sum.Totals.NewResources),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("inserting meta %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// WriteReport opens the database at path, writes s and closes it.
func WriteReport(path string, s *budget.State, unitLabel string) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	if err := r.Write(s, unitLabel); err != nil {
		_ = r.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	return r.Close()
}
