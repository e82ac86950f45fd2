package extract

import (
	"bufio"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"

	"msfs_hangar/internal/models"
)

// LiveryConfig is what the [FLTSIM.0] section of an aircraft.cfg tells us
type LiveryConfig struct {
	Title        string
	Model        models.Model
	Registration string // atc_id
	Company      string // atc_airline
	AirlineICAO  string // icao_airline
	Callsign     string // atc_flight_number
}

// ParseAircraftCfg reads the [FLTSIM.0] section of an aircraft.cfg file
func ParseAircraftCfg(fsys afero.Fs, path string) (LiveryConfig, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return LiveryConfig{}, err
	}
	return ParseAircraftCfgBytes(data), nil
}

// ParseAircraftCfgBytes parses aircraft.cfg content. Text that is not valid
// UTF-8 is decoded as Windows-1252, which is what most livery tools write.
func ParseAircraftCfgBytes(data []byte) LiveryConfig {
	var cfg LiveryConfig

	scanner := bufio.NewScanner(strings.NewReader(decodeText(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inSection := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inSection = strings.HasPrefix(strings.ToLower(line), "[fltsim.0]")
			continue
		}
		if !inSection {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = cfgValue(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "atc_id":
			cfg.Registration = value
		case "atc_airline":
			cfg.Company = value
		case "icao_airline":
			cfg.AirlineICAO = strings.ToUpper(value)
		case "atc_flight_number":
			cfg.Callsign = value
		case "title":
			cfg.Title = value
			cfg.Model = models.ModelFromTitle(value)
		}
	}

	return cfg
}

// cfgValue trims a value, drops a trailing ; comment and strips surrounding quotes
func cfgValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, `"`) {
		if end := strings.IndexByte(v[1:], '"'); end >= 0 {
			return strings.TrimSpace(v[1 : end+1])
		}
	}
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.Trim(strings.TrimSpace(v), `"`)
}

func decodeText(data []byte) string {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data)
	}
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
