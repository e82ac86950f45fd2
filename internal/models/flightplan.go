package models

import (
	"errors"
	"fmt"
)

var ErrSameAirport = errors.New("departure and arrival must differ")

// FlightPlan is the ad-hoc plan assembled from the user's selected airports and aircraft
type FlightPlan struct {
	Departure    AirportRecord  `json:"departure"`
	Arrival      AirportRecord  `json:"arrival"`
	Aircraft     AircraftRecord `json:"aircraft"`
	FlightNumber string         `json:"flight_number,omitempty"`
}

// Validate checks that the plan can be dispatched
func (p FlightPlan) Validate() error {
	if p.Departure.ICAO == "" || p.Arrival.ICAO == "" {
		return fmt.Errorf("flight plan needs a departure and an arrival")
	}
	if p.Departure.ICAO == p.Arrival.ICAO {
		return fmt.Errorf("%w: %s", ErrSameAirport, p.Departure.ICAO)
	}
	if p.Aircraft.Registration == "" {
		return ErrMissingRegistration
	}
	return nil
}
