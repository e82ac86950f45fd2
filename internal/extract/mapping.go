package extract

import (
	"strings"

	"github.com/spf13/afero"

	"msfs_hangar/internal/models"
)

// MatchCustomMapping returns the ICAO code of the first rule whose creator
// and title substrings both appear in the manifest fields
func MatchCustomMapping(creator, title string, rules []models.CustomMappingRule) (string, bool) {
	creator = strings.ToLower(creator)
	title = strings.ToLower(title)
	for _, rule := range rules {
		if rule.Creator == "" && rule.Title == "" {
			continue
		}
		if strings.Contains(creator, strings.ToLower(rule.Creator)) &&
			strings.Contains(title, strings.ToLower(rule.Title)) {
			return rule.ICAO, true
		}
	}
	return "", false
}

// FromCustomMapping applies the custom mapping rules to a package manifest
func FromCustomMapping(fsys afero.Fs, manifestPath string, rules []models.CustomMappingRule) Result {
	if len(rules) == 0 {
		return NotFound
	}
	m, err := ReadManifest(fsys, manifestPath)
	if err != nil {
		return NotFound
	}
	icao, ok := MatchCustomMapping(m.Creator, m.Title, rules)
	if !ok {
		return NotFound
	}
	return Found(icao, m.Title, StageCustomMapping)
}
