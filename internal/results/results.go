// Package results reads and writes the JSON and CSV files under the results directory
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"msfs_hangar/internal/models"
)

const (
	AirportsFile       = "airport_scanresults.json"
	AircraftFile       = "aircraft_scanresults.json"
	IgnoredReportFile  = "scan_report_ignored.csv"
	SelectedAirports   = "selected_airports.json"
	SelectedAircraft   = "selected_aircraft.json"
	SelectedFlightPlan = "selected_flight_plan.json"
)

// Writer writes result files into one directory
type Writer struct {
	Dir string
}

// NewWriter returns a writer for dir
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Path returns the location of a result file
func (w *Writer) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// WriteJSON encodes v with 4-space indentation into name, replacing any previous file
func (w *Writer) WriteJSON(name string, v any) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := os.WriteFile(w.Path(name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// ReadJSON decodes name into v
func (w *Writer) ReadJSON(name string, v any) error {
	data, err := os.ReadFile(w.Path(name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// WriteAirports writes airport_scanresults.json. A nil list is written as [].
func (w *Writer) WriteAirports(airports []models.AirportRecord) error {
	if airports == nil {
		airports = []models.AirportRecord{}
	}
	return w.WriteJSON(AirportsFile, airports)
}

// ReadAirports reads airport_scanresults.json
func (w *Writer) ReadAirports() ([]models.AirportRecord, error) {
	var airports []models.AirportRecord
	if err := w.ReadJSON(AirportsFile, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

// WriteAircraft writes aircraft_scanresults.json. A nil list is written as [].
func (w *Writer) WriteAircraft(aircraft []models.AircraftRecord) error {
	if aircraft == nil {
		aircraft = []models.AircraftRecord{}
	}
	return w.WriteJSON(AircraftFile, aircraft)
}

// ReadAircraft reads aircraft_scanresults.json
func (w *Writer) ReadAircraft() ([]models.AircraftRecord, error) {
	var aircraft []models.AircraftRecord
	if err := w.ReadJSON(AircraftFile, &aircraft); err != nil {
		return nil, err
	}
	return aircraft, nil
}
