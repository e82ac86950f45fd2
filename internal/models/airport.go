package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Source identifies which simulator package root an add-on was found in
type Source string

const (
	SourceCommunity Source = "community"
	SourceOfficial  Source = "official"
	SourceStreamed  Source = "streamed"
)

// Sources lists the package roots in the order they are scanned
var Sources = []Source{SourceCommunity, SourceOfficial, SourceStreamed}

// ParseSource converts a source name into a Source
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceCommunity:
		return SourceCommunity, nil
	case SourceOfficial:
		return SourceOfficial, nil
	case SourceStreamed:
		return SourceStreamed, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

var icaoPattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)

// ErrInvalidICAO is returned when a code is not a 4-character alphanumeric identifier
var ErrInvalidICAO = errors.New("invalid ICAO code")

// NormalizeICAO upper-cases and trims an ICAO code and checks its shape
func NormalizeICAO(icao string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(icao))
	if !icaoPattern.MatchString(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidICAO, icao)
	}
	return code, nil
}

// ReferenceAirport is one row of the reference airports CSV
type ReferenceAirport struct {
	ICAO      string   // Uppercase ICAO code, map key
	Name      string   // Airport name as written in the CSV
	City      string   // Served city
	Country   string   // Country name
	Latitude  *float64 // nil when the CSV value did not parse
	Longitude *float64 // nil when the CSV value did not parse
}

// AirportRecord is an airport scenery found during a scan
type AirportRecord struct {
	ICAO      string   `json:"icao"`
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Source    Source   `json:"source"`
}

// NewAirportRecord validates the ICAO code and source and builds a record
func NewAirportRecord(icao, name, path string, source Source) (AirportRecord, error) {
	code, err := NormalizeICAO(icao)
	if err != nil {
		return AirportRecord{}, err
	}
	if _, err := ParseSource(string(source)); err != nil {
		return AirportRecord{}, err
	}
	if name == "" {
		name = code
	}
	return AirportRecord{
		ICAO:   code,
		Name:   name,
		Path:   path,
		Source: source,
	}, nil
}

// WithLocation returns a copy of the record carrying the given coordinates
func (a AirportRecord) WithLocation(lat, lon *float64) AirportRecord {
	a.Latitude = lat
	a.Longitude = lon
	return a
}

// ScanCandidate is a top-level package folder under consideration
type ScanCandidate struct {
	Name   string
	Path   string
	Source Source
}

// IgnoredFolder is a package folder the scan skipped, kept for the diagnostic report
type IgnoredFolder struct {
	Source         Source
	Folder         string
	Reason         string
	ICAOCandidates []string
}
