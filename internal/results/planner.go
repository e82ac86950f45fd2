package results

import (
	"errors"
	"fmt"
	"strings"

	"msfs_hangar/internal/models"
)

// ErrNotFound is returned when a requested airport or registration is not in
// the records searched
var ErrNotFound = errors.New("not found")

// AircraftLookup finds liveries outside the current selection. The history
// database implements it.
type AircraftLookup interface {
	FindByRegistration(registration string) ([]models.AircraftRecord, error)
}

// PlanRequest names the legs and the airframe of a flight plan
type PlanRequest struct {
	Departure    string
	Arrival      string
	Registration string
	FlightNumber string
}

// SelectAirports picks airports from the last scan by ICAO, in the order
// given, and saves them as the airport selection
func (w *Writer) SelectAirports(icaos []string) ([]models.AirportRecord, error) {
	scanned, err := w.ReadAirports()
	if err != nil {
		return nil, err
	}

	byICAO := make(map[string]models.AirportRecord, len(scanned))
	for _, ap := range scanned {
		byICAO[ap.ICAO] = ap
	}

	selected := make([]models.AirportRecord, 0, len(icaos))
	seen := make(map[string]bool)
	for _, icao := range icaos {
		code := strings.ToUpper(strings.TrimSpace(icao))
		ap, ok := byICAO[code]
		if !ok {
			return nil, fmt.Errorf("airport %s: %w in %s", code, ErrNotFound, AirportsFile)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		selected = append(selected, ap)
	}

	if err := w.SaveAirportSelection(selected); err != nil {
		return nil, err
	}
	return selected, nil
}

// SelectAircraft picks every scanned livery carrying one of the registrations
// and saves them as the aircraft selection
func (w *Writer) SelectAircraft(registrations []string) ([]models.AircraftRecord, error) {
	scanned, err := w.ReadAircraft()
	if err != nil {
		return nil, err
	}

	var selected []models.AircraftRecord
	for _, reg := range registrations {
		matches := byRegistration(scanned, reg)
		if len(matches) == 0 {
			return nil, fmt.Errorf("registration %s: %w in %s", strings.TrimSpace(reg), ErrNotFound, AircraftFile)
		}
		selected = append(selected, matches...)
	}

	if err := w.SaveAircraftSelection(selected); err != nil {
		return nil, err
	}
	return selected, nil
}

// BuildFlightPlan resolves the request against the saved selections, then
// validates and saves the plan. When the registration is not selected, the
// newest livery known to history is used; history may be nil.
func (w *Writer) BuildFlightPlan(req PlanRequest, history AircraftLookup) (models.FlightPlan, error) {
	airports, err := w.LoadAirportSelection()
	if err != nil {
		return models.FlightPlan{}, err
	}

	dep, err := selectedAirport(airports, req.Departure)
	if err != nil {
		return models.FlightPlan{}, fmt.Errorf("departure: %w", err)
	}
	arr, err := selectedAirport(airports, req.Arrival)
	if err != nil {
		return models.FlightPlan{}, fmt.Errorf("arrival: %w", err)
	}

	aircraft, err := w.selectedAircraft(req.Registration, history)
	if err != nil {
		return models.FlightPlan{}, err
	}

	plan := models.FlightPlan{
		Departure:    dep,
		Arrival:      arr,
		Aircraft:     aircraft,
		FlightNumber: strings.TrimSpace(req.FlightNumber),
	}
	if err := w.SaveFlightPlan(plan); err != nil {
		return models.FlightPlan{}, err
	}
	return plan, nil
}

func (w *Writer) selectedAircraft(reg string, history AircraftLookup) (models.AircraftRecord, error) {
	if strings.TrimSpace(reg) == "" {
		return models.AircraftRecord{}, models.ErrMissingRegistration
	}

	selection, err := w.LoadAircraftSelection()
	if err != nil && history == nil {
		return models.AircraftRecord{}, err
	}
	if matches := byRegistration(selection, reg); len(matches) > 0 {
		return matches[0], nil
	}

	if history != nil {
		found, err := history.FindByRegistration(strings.ToUpper(strings.TrimSpace(reg)))
		if err != nil {
			return models.AircraftRecord{}, fmt.Errorf("failed to look up %s in history: %w", reg, err)
		}
		if len(found) > 0 {
			return found[0], nil
		}
	}
	return models.AircraftRecord{}, fmt.Errorf("registration %s: %w in %s", reg, ErrNotFound, SelectedAircraft)
}

func selectedAirport(airports []models.AirportRecord, icao string) (models.AirportRecord, error) {
	code := strings.ToUpper(strings.TrimSpace(icao))
	for _, ap := range airports {
		if ap.ICAO == code {
			return ap, nil
		}
	}
	return models.AirportRecord{}, fmt.Errorf("airport %q: %w in %s", code, ErrNotFound, SelectedAirports)
}

func byRegistration(aircraft []models.AircraftRecord, reg string) []models.AircraftRecord {
	reg = strings.TrimSpace(reg)
	var out []models.AircraftRecord
	for _, ac := range aircraft {
		if strings.EqualFold(ac.Registration, reg) {
			out = append(out, ac)
		}
	}
	return out
}
