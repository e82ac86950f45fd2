package database

import (
	"path/filepath"
	"testing"
	"time"

	"msfs_hangar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := New(filepath.Join(t.TempDir(), "hangar.db"))
	require.NoError(t, err)
	require.NotNil(t, db)

	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func ptr(f float64) *float64 { return &f }

func testAirports() []models.AirportRecord {
	return []models.AirportRecord{
		{ICAO: "LFPG", Name: "Paris Charles de Gaulle", Path: "/Community/LFPG", Latitude: ptr(49.0097), Longitude: ptr(2.5479), Source: models.SourceCommunity},
		{ICAO: "EGLL", Name: "Heathrow", Path: "/Official/egll", Source: models.SourceOfficial},
	}
}

func testAircraft() []models.AircraftRecord {
	return []models.AircraftRecord{
		{Model: models.ModelA320, Registration: "F-HBNK", Company: "Air France", ICAO: "AFR", EngineType: models.EngineCFM, Callsign: "AIRFRANS", Path: "/c/afr"},
		{Model: models.ModelA320, Registration: "F-HBNK", Company: "Air France", ICAO: "AFR", EngineType: models.EngineCFM, Path: "/c/afr2"},
	}
}

func finishedRun(started time.Time) models.ScanRun {
	run := models.NewScanRun(started)
	run.FinishedAt = started.Add(2 * time.Second)
	run.Ignored = 4
	return run
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)
	assert.NotNil(t, db)
}

func TestNew_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hangar.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.ScanRuns().Insert(models.NewScanRun(time.Now())))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
}

func TestRecordScan(t *testing.T) {
	db := setupTestDB(t)
	run := finishedRun(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, db.RecordScan(run, testAirports(), testAircraft()))

	latest, err := db.ScanRuns().Latest()
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, 2, latest.Airports)
	assert.Equal(t, 2, latest.Aircraft)
	assert.Equal(t, 4, latest.Ignored)
	assert.Equal(t, 2*time.Second, latest.Duration())

	airports, err := db.Airports().ByRun(run.ID)
	require.NoError(t, err)
	require.Len(t, airports, 2)
	assert.Equal(t, "EGLL", airports[0].ICAO)
	assert.Nil(t, airports[0].Latitude)
	require.NotNil(t, airports[1].Latitude)
	assert.InDelta(t, 49.0097, *airports[1].Latitude, 1e-9)
	assert.Equal(t, models.SourceCommunity, airports[1].Source)

	aircraft, err := db.Aircraft().ByRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, testAircraft(), aircraft)
}

func TestRecordScan_Empty(t *testing.T) {
	db := setupTestDB(t)
	run := finishedRun(time.Now())

	require.NoError(t, db.RecordScan(run, nil, nil))

	latest, err := db.ScanRuns().Latest()
	require.NoError(t, err)
	assert.Zero(t, latest.Airports)
}

func TestRecordScan_RollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.db.Exec(`DROP TABLE aircraft`)
	require.NoError(t, err)

	run := finishedRun(time.Now())
	assert.Error(t, db.RecordScan(run, testAirports(), testAircraft()))

	var runs, airports int
	require.NoError(t, db.db.QueryRow(`SELECT COUNT(*) FROM scan_runs`).Scan(&runs))
	require.NoError(t, db.db.QueryRow(`SELECT COUNT(*) FROM airports`).Scan(&airports))
	assert.Zero(t, runs)
	assert.Zero(t, airports)
}

func TestScanRuns_LatestEmpty(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.ScanRuns().Latest()
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestScanRuns_UnfinishedNotListed(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.ScanRuns().Insert(models.NewScanRun(time.Now())))

	runs, err := db.ScanRuns().List(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestScanRuns_FinishUnknown(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, db.ScanRuns().Finish(finishedRun(time.Now())))
}

func TestScanRuns_Prune(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		run := finishedRun(base.Add(time.Duration(i) * time.Hour))
		ids = append(ids, run.ID)
		require.NoError(t, db.RecordScan(run, testAirports(), testAircraft()))
	}

	removed, err := db.ScanRuns().Prune(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	runs, err := db.ScanRuns().List(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[2], runs[0].ID)

	// records of pruned runs go with them
	airports, err := db.Airports().ByRun(ids[0])
	require.NoError(t, err)
	assert.Empty(t, airports)

	found, err := db.Aircraft().FindByRegistration("F-HBNK")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestAirportRepository_InsertBatch_Empty(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Airports().InsertBatch("missing", nil))
}

func TestAirportRepository_InsertBatch_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, db.Airports().InsertBatch("missing", testAirports()))
}
