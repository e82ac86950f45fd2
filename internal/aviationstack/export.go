package aviationstack

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"msfs_hangar/internal/models"
)

var exportHeader = []string{"callsign", "name", "icao", "iata"}

// WriteCSV writes airlines in the callsign,name,icao,iata layout
func WriteCSV(w io.Writer, airlines []models.Airline) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range airlines {
		if err := cw.Write([]string{a.Callsign, a.Name, a.ICAO, a.IATA}); err != nil {
			return fmt.Errorf("failed to write airline %s: %w", a.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the airlines CSV to path, creating its directory
func ExportCSV(path string, airlines []models.Airline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, airlines); err != nil {
		return err
	}
	return f.Close()
}
