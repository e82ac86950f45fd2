// Package scanner walks the simulator package roots and turns package
// folders into airport and aircraft records.
package scanner

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"msfs_hangar/internal/classify"
	"msfs_hangar/internal/extract"
	"msfs_hangar/internal/models"
	"msfs_hangar/internal/reference"
)

// Strategy resolves an ICAO code for one package directory
type Strategy struct {
	Stage   extract.Stage
	Resolve func(pkgDir string) extract.Result
}

// AirportScanner resolves airport packages through an ordered list of strategies.
// The first strategy returning a match wins, so later stages are only consulted
// when earlier, more reliable ones fail.
type AirportScanner struct {
	fsys       afero.Fs
	airports   reference.Airports
	strategies []Strategy
}

// AirportScan is the outcome of one airport scan
type AirportScan struct {
	Airports []models.AirportRecord
	Ignored  []models.IgnoredFolder
}

// NewAirportScanner builds a scanner with the standard strategy order:
// manifest, custom mapping, content history and finally BGL scraping.
// bgl may be nil to disable the binary fallback.
func NewAirportScanner(fsys afero.Fs, airports reference.Airports, rules []models.CustomMappingRule, bgl *extract.BGLScanner) *AirportScanner {
	s := &AirportScanner{fsys: fsys, airports: airports}

	s.strategies = []Strategy{
		{
			Stage: extract.StageManifest,
			Resolve: func(dir string) extract.Result {
				return extract.FromManifest(fsys, filepath.Join(dir, "manifest.json"), airports)
			},
		},
		{
			Stage: extract.StageCustomMapping,
			Resolve: func(dir string) extract.Result {
				return extract.FromCustomMapping(fsys, filepath.Join(dir, "manifest.json"), rules)
			},
		},
		{
			Stage: extract.StageContentHistory,
			Resolve: func(dir string) extract.Result {
				return extract.FromContentHistory(fsys, dir, airports)
			},
		},
	}
	if bgl != nil {
		s.strategies = append(s.strategies, Strategy{
			Stage: extract.StageBGL,
			Resolve: func(dir string) extract.Result {
				return bgl.Scan(fsys, dir, airports)
			},
		})
	}
	return s
}

// WithStrategies replaces the strategy list
func (s *AirportScanner) WithStrategies(strategies ...Strategy) *AirportScanner {
	s.strategies = strategies
	return s
}

// Resolve runs the strategies in order against a package directory. A match
// that is not a valid record ICAO falls through to the next strategy.
func (s *AirportScanner) Resolve(pkgDir string) extract.Result {
	for _, st := range s.strategies {
		r := st.Resolve(pkgDir)
		if !r.Ok() {
			continue
		}
		if _, err := models.NormalizeICAO(r.ICAO); err != nil {
			slog.Debug("Strategy returned an unusable code", "stage", st.Stage, "icao", r.ICAO, "path", pkgDir)
			continue
		}
		return r
	}
	return extract.NotFound
}

// Scan walks every configured root in Sources order. Within a root, folders are
// visited in name order and the first package resolving to an ICAO keeps it.
func (s *AirportScanner) Scan(roots map[models.Source]string) AirportScan {
	var out AirportScan
	seen := make(map[string]string)

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
			cand := models.ScanCandidate{
				Name:   entry.Name(),
				Path:   filepath.Join(root, entry.Name()),
				Source: src,
			}

			rec, reason := s.scanCandidate(cand)
			if reason != "" {
				out.Ignored = append(out.Ignored, ignored(cand, reason))
				continue
			}

			if first, dup := seen[rec.ICAO]; dup {
				slog.Debug("Duplicate airport dropped", "icao", rec.ICAO, "path", cand.Path, "kept", first)
				out.Ignored = append(out.Ignored, ignored(cand, "duplicate of "+first))
				continue
			}
			seen[rec.ICAO] = cand.Path
			out.Airports = append(out.Airports, rec)
			found++
		}

		slog.Info("Scanned airport packages", "source", src, "folders", len(entries), "airports", found)
	}

	return out
}

// scanCandidate returns either a record or the reason the folder was skipped
func (s *AirportScanner) scanCandidate(cand models.ScanCandidate) (models.AirportRecord, string) {
	if kw := classify.Blacklisted(cand.Name); kw != "" {
		return models.AirportRecord{}, "blacklisted: " + kw
	}

	manifestPath := filepath.Join(cand.Path, "manifest.json")
	manifest, err := extract.ReadManifest(s.fsys, manifestPath)
	if err == nil && manifest.IsAircraftContent() {
		return models.AirportRecord{}, "aircraft content"
	}
	if !classify.IsAirportFolder(cand.Name) && !strings.EqualFold(manifest.ContentType, "SCENERY") {
		return models.AirportRecord{}, "not an airport package"
	}

	r := s.Resolve(cand.Path)
	if !r.Ok() {
		return models.AirportRecord{}, "no ICAO found"
	}

	name := r.Name
	ref, known := s.airports.Lookup(r.ICAO)
	if known && ref.Name != "" {
		name = ref.Name
	}

	rec, err := models.NewAirportRecord(r.ICAO, CleanName(strings.ToUpper(r.ICAO), name), cand.Path, cand.Source)
	if err != nil {
		return models.AirportRecord{}, fmt.Sprintf("invalid record: %v", err)
	}
	if known {
		rec = rec.WithLocation(ref.Latitude, ref.Longitude)
	}

	slog.Debug("Airport resolved", "icao", rec.ICAO, "stage", r.Stage, "verified", known, "path", cand.Path)
	return rec, ""
}

func ignored(cand models.ScanCandidate, reason string) models.IgnoredFolder {
	return models.IgnoredFolder{
		Source:         cand.Source,
		Folder:         cand.Name,
		Reason:         reason,
		ICAOCandidates: classify.ICAOCandidates(cand.Name),
	}
}
