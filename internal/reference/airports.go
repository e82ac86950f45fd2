package reference

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"msfs_hangar/internal/models"
)

// Airports maps uppercase ICAO codes to reference airport data
type Airports map[string]models.ReferenceAirport

// Has reports whether the code is a known airport
func (a Airports) Has(icao string) bool {
	_, ok := a[strings.ToUpper(icao)]
	return ok
}

// Lookup returns the reference entry for a code
func (a Airports) Lookup(icao string) (models.ReferenceAirport, bool) {
	ap, ok := a[strings.ToUpper(icao)]
	return ap, ok
}

// Codes returns every known code in sorted order
func (a Airports) Codes() []string {
	codes := make([]string, 0, len(a))
	for code := range a {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ReadAirports parses an icao,name,city,country,latitude,longitude CSV stream.
// Rows read before a parse error are returned along with the error.
func ReadAirports(r io.Reader) (Airports, error) {
	airports := make(Airports)

	err := csvTable(r, func(record []string, headerMap map[string]int) {
		icao := strings.ToUpper(getField(record, headerMap, "icao", "ident", "gps_code"))
		if icao == "" {
			return
		}
		airports[icao] = models.ReferenceAirport{
			ICAO:      icao,
			Name:      getField(record, headerMap, "name"),
			City:      getField(record, headerMap, "city", "municipality"),
			Country:   getField(record, headerMap, "country", "iso_country"),
			Latitude:  parseCoord(getField(record, headerMap, "latitude", "latitude_deg", "lat")),
			Longitude: parseCoord(getField(record, headerMap, "longitude", "longitude_deg", "lon")),
		}
	})
	if err != nil {
		return airports, fmt.Errorf("failed to read airports CSV: %w", err)
	}

	return airports, nil
}

// LoadAirports loads the reference airports CSV. A missing or unreadable file
// yields an empty table and a warning; scanning then runs unverified.
func LoadAirports(path string) Airports {
	f, err := Open(path)
	if err != nil {
		slog.Warn("Reference airports unavailable, ICAO codes will not be verified", "path", path, "error", err)
		return make(Airports)
	}
	defer f.Close()

	airports, err := ReadAirports(f)
	if err != nil {
		slog.Warn("Reference airports CSV is malformed", "path", path, "rows", len(airports), "error", err)
	}
	slog.Debug("Loaded reference airports", "path", path, "count", len(airports))
	return airports
}

func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
