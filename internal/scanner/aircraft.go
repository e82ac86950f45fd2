package scanner

import (
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"

	"msfs_hangar/internal/classify"
	"msfs_hangar/internal/extract"
	"msfs_hangar/internal/models"
	"msfs_hangar/internal/reference"
)

var packageModelRe = regexp.MustCompile(`(?i)-(319|320|321)(?:neo|ceo)?-`)

// AircraftScanner finds liveries below SimObjects/Airplanes of aircraft packages
type AircraftScanner struct {
	fsys       afero.Fs
	airlines   reference.Airlines
	Rules      []RegistrationRule
	Exclusions Exclusions
}

// AircraftScan is the outcome of one aircraft scan
type AircraftScan struct {
	Aircraft []models.AircraftRecord
	Ignored  []models.IgnoredFolder
	Packages []models.ScanCandidate // package folders that produced at least one livery
}

// NewAircraftScanner returns a scanner using the default registration rules
// and stock livery exclusions
func NewAircraftScanner(fsys afero.Fs, airlines reference.Airlines) *AircraftScanner {
	return &AircraftScanner{
		fsys:       fsys,
		airlines:   airlines,
		Rules:      DefaultRegistrationRules,
		Exclusions: DefaultExclusions,
	}
}

// Scan walks every configured root. One record is produced per livery folder;
// liveries sharing a registration are all kept.
func (s *AircraftScanner) Scan(roots map[models.Source]string) AircraftScan {
	var out AircraftScan

	for _, src := range models.Sources {
		root, ok := roots[src]
		if !ok {
			continue
		}

		entries, err := afero.ReadDir(s.fsys, root)
		if err != nil {
			slog.Warn("Unable to list package root", "source", src, "root", root, "error", err)
			continue
		}

		found := 0
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !classify.IsLiveryPackage(name) && !classify.IsAircraftFolder(name) {
				continue
			}
			cand := models.ScanCandidate{Name: name, Path: filepath.Join(root, name), Source: src}

			recs, reason := s.scanPackage(cand)
			if reason != "" {
				out.Ignored = append(out.Ignored, ignored(cand, reason))
				continue
			}
			if len(recs) > 0 {
				out.Packages = append(out.Packages, cand)
			}
			out.Aircraft = append(out.Aircraft, recs...)
			found += len(recs)
		}

		slog.Info("Scanned aircraft packages", "source", src, "folders", len(entries), "liveries", found)
	}

	return out
}

func (s *AircraftScanner) scanPackage(cand models.ScanCandidate) ([]models.AircraftRecord, string) {
	airplanes := filepath.Join(cand.Path, "SimObjects", "Airplanes")
	liveries, err := afero.ReadDir(s.fsys, airplanes)
	if err != nil {
		return nil, "no SimObjects/Airplanes"
	}

	var recs []models.AircraftRecord
	for _, livery := range liveries {
		if !livery.IsDir() {
			continue
		}
		dir := filepath.Join(airplanes, livery.Name())
		rec, ok := s.readLivery(cand.Name, dir)
		if !ok {
			continue
		}
		if reason := s.Exclusions.Match(rec); reason != "" {
			slog.Debug("Livery excluded", "path", dir, "reason", reason)
			continue
		}
		slog.Debug("Livery found", "model", rec.Model, "company", rec.Company, "registration", rec.Registration)
		recs = append(recs, rec)
	}
	return recs, ""
}

func (s *AircraftScanner) readLivery(pkgName, dir string) (models.AircraftRecord, bool) {
	cfg, err := extract.ParseAircraftCfg(s.fsys, filepath.Join(dir, "aircraft.cfg"))
	if err != nil {
		slog.Debug("No readable aircraft.cfg", "path", dir, "error", err)
		return models.AircraftRecord{}, false
	}

	model := cfg.Model
	if model == "" {
		model = modelFromPackage(pkgName)
	}

	reg := NormalizeRegistration(cfg.AirlineICAO, cfg.Registration, s.Rules)
	rec, err := models.NewAircraftRecord(model, reg, cfg.Company, cfg.AirlineICAO, models.GuessEngineType(filepath.Base(dir)))
	if err != nil {
		slog.Debug("Livery skipped", "path", dir, "error", err)
		return models.AircraftRecord{}, false
	}
	rec.Path = dir
	rec.Callsign = cfg.Callsign

	if airline, ok := s.airlines.Lookup(rec.ICAO); ok {
		if rec.Company == models.Unknown && airline.Name != "" {
			rec.Company = airline.Name
		}
		if rec.Callsign == "" {
			rec.Callsign = airline.Callsign
		}
	}
	return rec, true
}

// modelFromPackage reads the airframe from names like fnx-aircraft-320-liveries
func modelFromPackage(name string) models.Model {
	m := packageModelRe.FindStringSubmatch(name + "-")
	if m == nil {
		return ""
	}
	return models.Model("A" + m[1])
}
