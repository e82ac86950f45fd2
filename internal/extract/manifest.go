package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"msfs_hangar/internal/classify"
)

// Manifest holds the manifest.json fields the scanners look at
type Manifest struct {
	Title          string
	Name           string
	Creator        string
	Manufacturer   string
	ContentType    string
	PackageVersion string
	PackagePath    string
}

// ReadManifest decodes a package manifest.json. Unknown fields are ignored
// and non-string values read as empty.
func ReadManifest(fsys afero.Fs, path string) (Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Manifest{}, err
	}
	data = trimBOM(data)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	str := func(key string) string {
		s, _ := raw[key].(string)
		return strings.TrimSpace(s)
	}
	return Manifest{
		Title:          str("title"),
		Name:           str("name"),
		Creator:        str("creator"),
		Manufacturer:   str("manufacturer"),
		ContentType:    str("content_type"),
		PackageVersion: str("package_version"),
		PackagePath:    str("package_path"),
	}, nil
}

// IsAircraftContent reports whether the manifest declares aircraft or livery content
func (m Manifest) IsAircraftContent() bool {
	switch strings.ToUpper(m.ContentType) {
	case "AIRCRAFT", "LIVERY":
		return true
	}
	return false
}

// FromManifest resolves an airport ICAO code from a package's manifest.json
// and its folder name. The folder name is evaluated even when the manifest
// is missing or malformed.
func FromManifest(fsys afero.Fs, manifestPath string, known Codes) Result {
	if known == nil {
		known = noCodes{}
	}
	folder := filepath.Base(filepath.Dir(manifestPath))

	m, err := ReadManifest(fsys, manifestPath)
	if err != nil {
		slog.Debug("Manifest unavailable", "path", manifestPath, "error", err)
	}

	fields := []string{m.Title, m.Name, m.PackageVersion, m.PackagePath, folder}
	icao := matchFields(fields, folder, known)
	if icao == "" {
		return NotFound
	}

	name := m.Title
	if name == "" {
		name = folder
	}
	return Found(icao, name, StageManifest)
}

func matchFields(fields []string, folder string, known Codes) string {
	for _, f := range fields {
		if code := knownToken(f, known); code != "" {
			return code
		}
	}
	for _, f := range fields {
		if code := knownSubstring(f, known); code != "" {
			return code
		}
	}
	for _, f := range fields {
		if code := pipeCandidate(f, known); code != "" {
			return code
		}
	}
	if code := classify.AirportCode(folder); code != "" {
		return code
	}
	for _, f := range fields {
		if code := fourCharRun([]byte(f), func(string) bool { return true }); code != "" {
			return code
		}
	}
	return ""
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
