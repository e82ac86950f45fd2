package reference

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"msfs_hangar/internal/models"
)

// Airlines maps uppercase airline ICAO codes to callsign data
type Airlines map[string]models.Airline

// Lookup returns the airline for a code
func (a Airlines) Lookup(icao string) (models.Airline, bool) {
	al, ok := a[strings.ToUpper(strings.TrimSpace(icao))]
	return al, ok
}

// ReadAirlines parses an ICAO,Companyname,Callsign,IATA CSV stream. The
// callsign,name,icao,iata layout written by fetch-airlines is accepted too.
func ReadAirlines(r io.Reader) (Airlines, error) {
	airlines := make(Airlines)

	err := csvTable(r, func(record []string, headerMap map[string]int) {
		icao := strings.ToUpper(getField(record, headerMap, "icao"))
		if icao == "" {
			return
		}
		if _, dup := airlines[icao]; dup {
			return
		}
		airlines[icao] = models.Airline{
			ICAO:     icao,
			Name:     getField(record, headerMap, "companyname", "name"),
			Callsign: strings.ToUpper(getField(record, headerMap, "callsign")),
			IATA:     strings.ToUpper(getField(record, headerMap, "iata")),
		}
	})
	if err != nil {
		return airlines, fmt.Errorf("failed to read callsigns CSV: %w", err)
	}

	return airlines, nil
}

// LoadAirlines loads the callsign reference CSV, degrading to an empty table
func LoadAirlines(path string) Airlines {
	f, err := Open(path)
	if err != nil {
		slog.Warn("Callsign reference unavailable", "path", path, "error", err)
		return make(Airlines)
	}
	defer f.Close()

	airlines, err := ReadAirlines(f)
	if err != nil {
		slog.Warn("Callsign reference CSV is malformed", "path", path, "rows", len(airlines), "error", err)
	}
	return airlines
}
