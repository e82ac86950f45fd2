package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"msfs_hangar/internal/models"
)

var reportHeader = []string{"source", "folder", "reason", "icao_candidates"}

// WriteIgnoredReport writes scan_report_ignored.csv, one row per skipped folder.
// ICAO candidates are joined with "|".
func (w *Writer) WriteIgnoredReport(ignored []models.IgnoredFolder) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	f, err := os.Create(w.Path(IgnoredReportFile))
	if err != nil {
		return fmt.Errorf("failed to create ignored report: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("failed to write ignored report: %w", err)
	}
	for _, ig := range ignored {
		row := []string{string(ig.Source), ig.Folder, ig.Reason, strings.Join(ig.ICAOCandidates, "|")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write ignored report: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush ignored report: %w", err)
	}
	return f.Close()
}
