package database

import (
	"fmt"

	"msfs_hangar/internal/models"
)

// RecordScan stores a finished run and its records in one transaction.
// Nothing is written when any insert fails.
func (d *DB) RecordScan(run models.ScanRun, airports []models.AirportRecord, aircraft []models.AircraftRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO scan_runs (id, started_at, finished_at, airports, aircraft, ignored)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), len(airports), len(aircraft), run.Ignored)
	if err != nil {
		return fmt.Errorf("failed to insert scan run: %w", err)
	}
	if err := insertAirports(tx, run.ID, airports); err != nil {
		return fmt.Errorf("failed to record airports: %w", err)
	}
	if err := insertAircraft(tx, run.ID, aircraft); err != nil {
		return fmt.Errorf("failed to record aircraft: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
