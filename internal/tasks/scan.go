package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"msfs_hangar/internal/config"
	"msfs_hangar/internal/extract"
	"msfs_hangar/internal/models"
	"msfs_hangar/internal/reference"
	"msfs_hangar/internal/results"
	"msfs_hangar/internal/scanner"
)

// History stores finished scans. database.DB implements it.
type History interface {
	RecordScan(run models.ScanRun, airports []models.AirportRecord, aircraft []models.AircraftRecord) error
}

// Scope selects which scanners a run executes
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeAirports Scope = "airports"
	ScopeAircraft Scope = "aircraft"
)

// ParseScope validates a -only flag value
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeAll, ScopeAirports, ScopeAircraft:
		return Scope(s), nil
	case "":
		return ScopeAll, nil
	}
	return "", fmt.Errorf("invalid scope %q (must be airports, aircraft or all)", s)
}

func (s Scope) airports() bool { return s == ScopeAll || s == ScopeAirports }
func (s Scope) aircraft() bool { return s == ScopeAll || s == ScopeAircraft }

// Summary is what the last run produced
type Summary struct {
	Run      models.ScanRun
	Airports []models.AirportRecord
	Aircraft []models.AircraftRecord
	Ignored  []models.IgnoredFolder
}

// ScanTask runs a full scan of the configured roots and writes the results.
// Reference data is reloaded on every run so edits to the CSV files apply to
// the next periodic scan.
type ScanTask struct {
	cfg      *config.Config
	fsys     afero.Fs
	writer   *results.Writer
	history  History
	bgl      *extract.BGLScanner
	scope    Scope
	interval time.Duration
	now      func() time.Time
	last     Summary
}

// NewScanTask creates a scan task. history may be nil.
func NewScanTask(cfg *config.Config, fsys afero.Fs, writer *results.Writer, history History, scope Scope, interval time.Duration) (*ScanTask, error) {
	bgl, err := extract.NewBGLScanner(cfg.Scan.BGLMaxDepth, cfg.Scan.BGLCacheSize)
	if err != nil {
		return nil, err
	}
	return &ScanTask{
		cfg:      cfg,
		fsys:     fsys,
		writer:   writer,
		history:  history,
		bgl:      bgl,
		scope:    scope,
		interval: interval,
		now:      time.Now,
	}, nil
}

func (t *ScanTask) Name() string            { return "scan" }
func (t *ScanTask) Interval() time.Duration { return t.interval }

// Last returns the summary of the most recent successful run
func (t *ScanTask) Last() Summary {
	return t.last
}

// Run scans the roots, then writes the JSON results, the ignored report and
// the history entry
func (t *ScanTask) Run(ctx context.Context) error {
	run := models.NewScanRun(t.now())
	roots := t.cfg.Roots()
	slog.Info("Starting scan", "run_id", run.ID, "scope", t.scope, "roots", len(roots))

	var sum Summary

	if t.scope.airports() {
		airports := reference.LoadAirports(t.cfg.Data.AirportsCSV)
		rules := reference.LoadCustomMapping(t.cfg.Data.CustomMapping)
		if len(airports) == 0 {
			slog.Warn("No reference airports loaded, codes will be unverified")
		}

		res := scanner.NewAirportScanner(t.fsys, airports, rules, t.bgl).Scan(roots)
		sum.Airports = res.Airports
		sum.Ignored = append(sum.Ignored, res.Ignored...)

		if err := t.writer.WriteAirports(res.Airports); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if t.scope.aircraft() {
		airlines := reference.LoadAirlines(t.cfg.Data.CallsignsCSV)
		res := scanner.NewAircraftScanner(t.fsys, airlines).Scan(roots)
		sum.Aircraft = res.Aircraft
		// the airport pass skips every aircraft package, drop the ones that yielded liveries
		sum.Ignored = append(withoutPackages(sum.Ignored, res.Packages), res.Ignored...)

		if err := t.writer.WriteAircraft(res.Aircraft); err != nil {
			return err
		}
	}

	if err := t.writer.WriteIgnoredReport(sum.Ignored); err != nil {
		return err
	}

	run.FinishedAt = t.now()
	run.Airports = len(sum.Airports)
	run.Aircraft = len(sum.Aircraft)
	run.Ignored = len(sum.Ignored)
	sum.Run = run

	if t.history != nil {
		if err := t.history.RecordScan(run, sum.Airports, sum.Aircraft); err != nil {
			// results are already on disk, history is best effort
			slog.Error("Failed to record scan history", "run_id", run.ID, "error", err)
		}
	}

	t.last = sum
	slog.Info("Scan finished",
		"run_id", run.ID,
		"airports", run.Airports,
		"aircraft", run.Aircraft,
		"ignored", run.Ignored,
		"duration", run.Duration(),
	)
	return nil
}

// withoutPackages removes the entries for the given package folders
func withoutPackages(ignored []models.IgnoredFolder, pkgs []models.ScanCandidate) []models.IgnoredFolder {
	if len(pkgs) == 0 {
		return ignored
	}
	handled := make(map[models.ScanCandidate]bool, len(pkgs))
	for _, p := range pkgs {
		handled[models.ScanCandidate{Name: p.Name, Source: p.Source}] = true
	}

	out := ignored[:0:0]
	for _, ig := range ignored {
		if !handled[models.ScanCandidate{Name: ig.Folder, Source: ig.Source}] {
			out = append(out, ig)
		}
	}
	return out
}
