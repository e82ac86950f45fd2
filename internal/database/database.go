package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the sqlite scan history store
type DB struct {
	db *sql.DB
}

// New creates and initializes a new database connection
func New(dbPath string) (*DB, error) {
	// foreign keys are a per-connection setting, so they go in the DSN
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// optimizeSQLite sets the pragmas used for every connection
func optimizeSQLite(db *sql.DB) error {
	// WAL lets the GUI read results while a rescan writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// ScanRuns returns the scan history repository
func (d *DB) ScanRuns() ScanRunRepository {
	return NewScanRunRepository(d.db)
}

// Airports returns the airport results repository
func (d *DB) Airports() AirportRepository {
	return NewAirportRepository(d.db)
}

// Aircraft returns the aircraft results repository
func (d *DB) Aircraft() AircraftRepository {
	return NewAircraftRepository(d.db)
}

// initSchema creates the database schema if it doesn't exist
func (d *DB) initSchema() error {
	schemas := []struct {
		table string
		ddl   string
	}{
		{"scan_runs", `CREATE TABLE IF NOT EXISTS scan_runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			airports INTEGER NOT NULL DEFAULT 0,
			aircraft INTEGER NOT NULL DEFAULT 0,
			ignored INTEGER NOT NULL DEFAULT 0
		);`},
		{"airports", `CREATE TABLE IF NOT EXISTS airports (
			run_id TEXT NOT NULL REFERENCES scan_runs(id) ON DELETE CASCADE,
			icao TEXT NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			latitude REAL,
			longitude REAL,
			source TEXT NOT NULL,
			PRIMARY KEY (run_id, icao)
		);`},
		{"aircraft", `CREATE TABLE IF NOT EXISTS aircraft (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES scan_runs(id) ON DELETE CASCADE,
			model TEXT NOT NULL,
			registration TEXT NOT NULL,
			company TEXT NOT NULL,
			icao TEXT NOT NULL,
			engine_type TEXT NOT NULL,
			callsign TEXT,
			path TEXT
		);`},
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_started_at ON scan_runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_aircraft_run_id ON aircraft(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_aircraft_registration ON aircraft(registration)`,
	}

	for _, s := range schemas {
		if _, err := d.db.Exec(s.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", s.table, err)
		}
	}

	for _, idx := range indexes {
		if _, err := d.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
