package results

import (
	"encoding/json"
	"fmt"
	"os"

	"msfs_hangar/internal/models"
)

// SaveAirportSelection persists the user's airport subset
func (w *Writer) SaveAirportSelection(airports []models.AirportRecord) error {
	if airports == nil {
		airports = []models.AirportRecord{}
	}
	return w.WriteJSON(SelectedAirports, airports)
}

// LoadAirportSelection reads selected_airports.json
func (w *Writer) LoadAirportSelection() ([]models.AirportRecord, error) {
	var airports []models.AirportRecord
	if err := w.ReadJSON(SelectedAirports, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

// SaveAircraftSelection persists the user's aircraft subset
func (w *Writer) SaveAircraftSelection(aircraft []models.AircraftRecord) error {
	if aircraft == nil {
		aircraft = []models.AircraftRecord{}
	}
	return w.WriteJSON(SelectedAircraft, aircraft)
}

// LoadAircraftSelection reads selected_aircraft.json
func (w *Writer) LoadAircraftSelection() ([]models.AircraftRecord, error) {
	var aircraft []models.AircraftRecord
	if err := w.ReadJSON(SelectedAircraft, &aircraft); err != nil {
		return nil, err
	}
	return aircraft, nil
}

// SaveFlightPlan validates and writes selected_flight_plan.json
func (w *Writer) SaveFlightPlan(plan models.FlightPlan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("failed to save flight plan: %w", err)
	}
	return w.WriteJSON(SelectedFlightPlan, plan)
}

// LoadFlightPlan reads and validates selected_flight_plan.json
func (w *Writer) LoadFlightPlan() (models.FlightPlan, error) {
	return ReadFlightPlan(w.Path(SelectedFlightPlan))
}

// ReadFlightPlan reads and validates a flight plan file
func ReadFlightPlan(path string) (models.FlightPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.FlightPlan{}, fmt.Errorf("failed to read flight plan: %w", err)
	}
	var plan models.FlightPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.FlightPlan{}, fmt.Errorf("failed to parse flight plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return models.FlightPlan{}, fmt.Errorf("invalid flight plan: %w", err)
	}
	return plan, nil
}
