package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msfs_hangar/internal/config"
	"msfs_hangar/internal/models"
	"msfs_hangar/internal/results"
)

// mockHistory is a simple mock implementation of History
type mockHistory struct {
	runs     []models.ScanRun
	airports int
	aircraft int
	err      error
}

func (m *mockHistory) RecordScan(run models.ScanRun, airports []models.AirportRecord, aircraft []models.AircraftRecord) error {
	m.runs = append(m.runs, run)
	m.airports += len(airports)
	m.aircraft += len(aircraft)
	return m.err
}

func writeFile(t *testing.T, fsys afero.Fs, path, body string) {
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
}

func setupScan(t *testing.T, scope Scope, history History) (*ScanTask, *results.Writer) {
	dataDir := t.TempDir()
	airportsCSV := filepath.Join(dataDir, "airports.csv")
	require.NoError(t, os.WriteFile(airportsCSV, []byte("icao,name,city,country,latitude,longitude\nLFPG,LFPG Paris Charles de Gaulle,Paris,France,49.0097,2.5479\n"), 0o644))
	callsignsCSV := filepath.Join(dataDir, "callsigns.csv")
	require.NoError(t, os.WriteFile(callsignsCSV, []byte("ICAO,Companyname,Callsign,IATA\nAFR,Air France,AIRFRANS,AF\n"), 0o644))

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/Community/LFPG", 0o755))
	require.NoError(t, fsys.MkdirAll("/Community/asobo-landmarks-paris", 0o755))
	writeFile(t, fsys, "/Community/fnx-aircraft-320-liveries/SimObjects/Airplanes/FNX_320_AFR_CFM/aircraft.cfg",
		"[FLTSIM.0]\natc_id=F-HBNK\natc_airline=Air France\nicao_airline=AFR\ntitle=A320neo\n")

	cfg := &config.Config{
		CommunityDir: "/Community",
		ResultsDir:   filepath.Join(t.TempDir(), "results"),
		Data: config.DataConfig{
			AirportsCSV:   airportsCSV,
			CallsignsCSV:  callsignsCSV,
			CustomMapping: filepath.Join(dataDir, "missing.json"),
		},
		Scan: config.ScanConfig{BGLMaxDepth: 3, BGLCacheSize: 16},
	}

	writer := results.NewWriter(cfg.ResultsDir)
	task, err := NewScanTask(cfg, fsys, writer, history, scope, time.Minute)
	require.NoError(t, err)
	return task, writer
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{in: "", want: ScopeAll},
		{in: "all", want: ScopeAll},
		{in: "airports", want: ScopeAirports},
		{in: "aircraft", want: ScopeAircraft},
		{in: "liveries", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanTask_Run(t *testing.T) {
	history := &mockHistory{}
	task, writer := setupScan(t, ScopeAll, history)

	assert.Equal(t, "scan", task.Name())
	assert.Equal(t, time.Minute, task.Interval())

	require.NoError(t, task.Run(context.Background()))

	airports, err := writer.ReadAirports()
	require.NoError(t, err)
	require.Len(t, airports, 1)
	assert.Equal(t, "Paris Charles de Gaulle", airports[0].Name)

	aircraft, err := writer.ReadAircraft()
	require.NoError(t, err)
	require.Len(t, aircraft, 1)
	assert.Equal(t, "AIRFRANS", aircraft[0].Callsign)

	report, err := os.ReadFile(writer.Path(results.IgnoredReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "asobo-landmarks-paris")
	assert.NotContains(t, string(report), "fnx-aircraft-320-liveries", "scanned livery packages are not ignored")

	require.Len(t, history.runs, 1)
	assert.Equal(t, 1, history.runs[0].Airports)
	assert.Equal(t, 1, history.runs[0].Aircraft)
	assert.NotEmpty(t, history.runs[0].ID)

	last := task.Last()
	assert.Equal(t, history.runs[0].ID, last.Run.ID)
	assert.NotEmpty(t, last.Ignored)
}

func TestScanTask_Idempotent(t *testing.T) {
	task, writer := setupScan(t, ScopeAll, nil)

	require.NoError(t, task.Run(context.Background()))
	firstAirports, err := os.ReadFile(writer.Path(results.AirportsFile))
	require.NoError(t, err)
	firstAircraft, err := os.ReadFile(writer.Path(results.AircraftFile))
	require.NoError(t, err)

	require.NoError(t, task.Run(context.Background()))
	secondAirports, err := os.ReadFile(writer.Path(results.AirportsFile))
	require.NoError(t, err)
	secondAircraft, err := os.ReadFile(writer.Path(results.AircraftFile))
	require.NoError(t, err)

	assert.Equal(t, string(firstAirports), string(secondAirports))
	assert.Equal(t, string(firstAircraft), string(secondAircraft))
}

func TestScanTask_ScopeAirports(t *testing.T) {
	task, writer := setupScan(t, ScopeAirports, nil)
	require.NoError(t, task.Run(context.Background()))

	_, err := os.Stat(writer.Path(results.AirportsFile))
	assert.NoError(t, err)
	_, err = os.Stat(writer.Path(results.AircraftFile))
	assert.True(t, os.IsNotExist(err))
}

func TestScanTask_ScopeAirportsReportsLiveryPackages(t *testing.T) {
	task, writer := setupScan(t, ScopeAirports, nil)
	require.NoError(t, task.Run(context.Background()))

	report, err := os.ReadFile(writer.Path(results.IgnoredReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "community,fnx-aircraft-320-liveries,blacklisted: liveries,")
}

func TestWithoutPackages(t *testing.T) {
	ignored := []models.IgnoredFolder{
		{Source: models.SourceCommunity, Folder: "fnx-aircraft-320-liveries", Reason: "blacklisted: liveries"},
		{Source: models.SourceOfficial, Folder: "fnx-aircraft-320-liveries", Reason: "blacklisted: liveries"},
		{Source: models.SourceCommunity, Folder: "asobo-landmarks-paris", Reason: "blacklisted: landmark"},
	}
	pkgs := []models.ScanCandidate{{Name: "fnx-aircraft-320-liveries", Path: "/Community/fnx-aircraft-320-liveries", Source: models.SourceCommunity}}

	got := withoutPackages(ignored, pkgs)
	require.Len(t, got, 2)
	assert.Equal(t, models.SourceOfficial, got[0].Source)
	assert.Equal(t, "asobo-landmarks-paris", got[1].Folder)
	assert.Len(t, ignored, 3)
}

func TestScanTask_HistoryErrorIsNotFatal(t *testing.T) {
	history := &mockHistory{err: errors.New("disk full")}
	task, _ := setupScan(t, ScopeAll, history)

	assert.NoError(t, task.Run(context.Background()))
	assert.Len(t, history.runs, 1)
}

func TestScanTask_Cancelled(t *testing.T) {
	task, writer := setupScan(t, ScopeAll, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := task.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(writer.Path(results.AircraftFile))
	assert.True(t, os.IsNotExist(statErr))
}
