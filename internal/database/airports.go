package database

import (
	"database/sql"
	"fmt"

	"msfs_hangar/internal/models"
)

type AirportRepository interface {
	InsertBatch(runID string, airports []models.AirportRecord) error
	ByRun(runID string) ([]models.AirportRecord, error)
}

type airportRepository struct {
	db *sql.DB
}

func NewAirportRepository(db *sql.DB) AirportRepository {
	return &airportRepository{db: db}
}

// InsertBatch inserts the airports of one run in a single transaction
func (r *airportRepository) InsertBatch(runID string, airports []models.AirportRecord) error {
	if len(airports) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAirports(tx, runID, airports); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertAirports(tx *sql.Tx, runID string, airports []models.AirportRecord) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO airports (
		run_id, icao, name, path, latitude, longitude, source
	) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ap := range airports {
		if _, err := stmt.Exec(runID, ap.ICAO, ap.Name, ap.Path, ap.Latitude, ap.Longitude, string(ap.Source)); err != nil {
			return fmt.Errorf("failed to insert airport %s: %w", ap.ICAO, err)
		}
	}
	return nil
}

// ByRun returns the airports of a run ordered by ICAO
func (r *airportRepository) ByRun(runID string) ([]models.AirportRecord, error) {
	rows, err := r.db.Query(`SELECT icao, name, path, latitude, longitude, source
		FROM airports WHERE run_id = ? ORDER BY icao`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []models.AirportRecord
	for rows.Next() {
		var (
			ap       models.AirportRecord
			lat, lon sql.NullFloat64
			source   string
		)
		if err := rows.Scan(&ap.ICAO, &ap.Name, &ap.Path, &lat, &lon, &source); err != nil {
			return nil, fmt.Errorf("failed to scan airport row: %w", err)
		}
		if lat.Valid {
			ap.Latitude = &lat.Float64
		}
		if lon.Valid {
			ap.Longitude = &lon.Float64
		}
		ap.Source = models.Source(source)
		airports = append(airports, ap)
	}
	return airports, rows.Err()
}
