package database

import (
	"database/sql"
	"fmt"

	"msfs_hangar/internal/models"
)

type AircraftRepository interface {
	InsertBatch(runID string, aircraft []models.AircraftRecord) error
	ByRun(runID string) ([]models.AircraftRecord, error)
	FindByRegistration(registration string) ([]models.AircraftRecord, error)
}

type aircraftRepository struct {
	db *sql.DB
}

func NewAircraftRepository(db *sql.DB) AircraftRepository {
	return &aircraftRepository{db: db}
}

// InsertBatch inserts the liveries of one run in a single transaction
func (r *aircraftRepository) InsertBatch(runID string, aircraft []models.AircraftRecord) error {
	if len(aircraft) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAircraft(tx, runID, aircraft); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertAircraft(tx *sql.Tx, runID string, aircraft []models.AircraftRecord) error {
	stmt, err := tx.Prepare(`INSERT INTO aircraft (
		run_id, model, registration, company, icao, engine_type, callsign, path
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ac := range aircraft {
		if _, err := stmt.Exec(
			runID, string(ac.Model), ac.Registration, ac.Company, ac.ICAO,
			string(ac.EngineType), ac.Callsign, ac.Path,
		); err != nil {
			return fmt.Errorf("failed to insert aircraft %s: %w", ac.Registration, err)
		}
	}
	return nil
}

// ByRun returns the liveries of a run in scan order
func (r *aircraftRepository) ByRun(runID string) ([]models.AircraftRecord, error) {
	return r.query(`SELECT model, registration, company, icao, engine_type, callsign, path
		FROM aircraft WHERE run_id = ? ORDER BY id`, runID)
}

// FindByRegistration returns every stored livery with the registration, newest run first
func (r *aircraftRepository) FindByRegistration(registration string) ([]models.AircraftRecord, error) {
	return r.query(`SELECT a.model, a.registration, a.company, a.icao, a.engine_type, a.callsign, a.path
		FROM aircraft a JOIN scan_runs s ON s.id = a.run_id
		WHERE a.registration = ? ORDER BY s.started_at DESC, a.id`, registration)
}

func (r *aircraftRepository) query(q string, args ...any) ([]models.AircraftRecord, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}
	defer rows.Close()

	var aircraft []models.AircraftRecord
	for rows.Next() {
		var (
			ac             models.AircraftRecord
			model, engine  string
			callsign, path sql.NullString
		)
		if err := rows.Scan(&model, &ac.Registration, &ac.Company, &ac.ICAO, &engine, &callsign, &path); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft row: %w", err)
		}
		ac.Model = models.Model(model)
		ac.EngineType = models.EngineType(engine)
		ac.Callsign = callsign.String
		ac.Path = path.String
		aircraft = append(aircraft, ac)
	}
	return aircraft, rows.Err()
}
