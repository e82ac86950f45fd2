package database

import (
	"database/sql"
	"errors"
	"fmt"

	"msfs_hangar/internal/models"
)

// ErrNoRuns is returned when the history is empty
var ErrNoRuns = errors.New("no scan recorded")

type ScanRunRepository interface {
	Insert(run models.ScanRun) error
	Finish(run models.ScanRun) error
	Latest() (models.ScanRun, error)
	List(limit int) ([]models.ScanRun, error)
	Prune(keep int) (int64, error)
}

type scanRunRepository struct {
	db *sql.DB
}

func NewScanRunRepository(db *sql.DB) ScanRunRepository {
	return &scanRunRepository{db: db}
}

// Insert records the start of a run
func (r *scanRunRepository) Insert(run models.ScanRun) error {
	_, err := r.db.Exec(`INSERT INTO scan_runs (id, started_at) VALUES (?, ?)`, run.ID, run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert scan run: %w", err)
	}
	return nil
}

// Finish stores the end time and counters of a run
func (r *scanRunRepository) Finish(run models.ScanRun) error {
	res, err := r.db.Exec(`UPDATE scan_runs SET finished_at = ?, airports = ?, aircraft = ?, ignored = ? WHERE id = ?`,
		run.FinishedAt.UTC(), run.Airports, run.Aircraft, run.Ignored, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish scan run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to finish scan run %s: %w", run.ID, sql.ErrNoRows)
	}
	return nil
}

// Latest returns the most recent finished run
func (r *scanRunRepository) Latest() (models.ScanRun, error) {
	runs, err := r.List(1)
	if err != nil {
		return models.ScanRun{}, err
	}
	if len(runs) == 0 {
		return models.ScanRun{}, ErrNoRuns
	}
	return runs[0], nil
}

// List returns finished runs, newest first
func (r *scanRunRepository) List(limit int) ([]models.ScanRun, error) {
	rows, err := r.db.Query(`SELECT id, started_at, finished_at, airports, aircraft, ignored
		FROM scan_runs WHERE finished_at IS NOT NULL
		ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ScanRun
	for rows.Next() {
		var run models.ScanRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Airports, &run.Aircraft, &run.Ignored); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes all but the newest keep runs together with their records
func (r *scanRunRepository) Prune(keep int) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM scan_runs WHERE id NOT IN (
		SELECT id FROM scan_runs ORDER BY started_at DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scan runs: %w", err)
	}
	return res.RowsAffected()
}
