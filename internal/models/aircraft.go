package models

import (
	"errors"
	"fmt"
	"strings"
)

// Model is one of the airframes the livery scanner recognises
type Model string

const (
	ModelA319 Model = "A319"
	ModelA320 Model = "A320"
	ModelA321 Model = "A321"
)

// ModelFromTitle infers the airframe from an aircraft.cfg title.
// Returns "" when no known model appears in the title.
func ModelFromTitle(title string) Model {
	t := strings.ToUpper(title)
	for _, m := range []Model{ModelA319, ModelA320, ModelA321} {
		if strings.Contains(t, string(m)) {
			return m
		}
	}
	return ""
}

// EngineType is the engine option of a livery
type EngineType string

const (
	EngineCFM     EngineType = "CFM"
	EngineIAE     EngineType = "IAE"
	EngineUnknown EngineType = "UNKNOWN"
)

// GuessEngineType infers the engine option from a livery folder name
func GuessEngineType(folder string) EngineType {
	f := strings.ToLower(folder)
	switch {
	case strings.Contains(f, "cfm"):
		return EngineCFM
	case strings.Contains(f, "iae"):
		return EngineIAE
	default:
		return EngineUnknown
	}
}

// Unknown is written for company and airline fields that could not be read
const Unknown = "UNKNOWN"

var (
	ErrMissingRegistration = errors.New("missing registration")
	ErrUnknownModel        = errors.New("unknown aircraft model")
)

// AircraftRecord is an installed livery found during a scan
type AircraftRecord struct {
	Model        Model      `json:"model"`
	Registration string     `json:"registration"`
	Company      string     `json:"company"`
	ICAO         string     `json:"icao"` // Airline ICAO code
	EngineType   EngineType `json:"engine_type"`
	Callsign     string     `json:"callsign,omitempty"`
	Path         string     `json:"path,omitempty"`
}

// NewAircraftRecord validates the required fields and fills defaults for the rest
func NewAircraftRecord(model Model, registration, company, icao string, engine EngineType) (AircraftRecord, error) {
	registration = strings.TrimSpace(registration)
	if registration == "" {
		return AircraftRecord{}, ErrMissingRegistration
	}
	switch model {
	case ModelA319, ModelA320, ModelA321:
	default:
		return AircraftRecord{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	if company = strings.TrimSpace(company); company == "" {
		company = Unknown
	}
	if icao = strings.ToUpper(strings.TrimSpace(icao)); icao == "" {
		icao = Unknown
	}
	if engine == "" {
		engine = EngineUnknown
	}
	return AircraftRecord{
		Model:        model,
		Registration: registration,
		Company:      company,
		ICAO:         icao,
		EngineType:   engine,
	}, nil
}

// Airline is one row of the callsign reference CSV
type Airline struct {
	ICAO     string // Primary key - 3 letter airline code
	Name     string // Company name
	Callsign string // Radio callsign
	IATA     string // 2 character IATA code
}
