package reference

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"msfs_hangar/internal/models"
)

// ReadCustomMapping decodes a [{creator, title, icao}] JSON array.
// Rules without an ICAO code are dropped.
func ReadCustomMapping(r io.Reader) ([]models.CustomMappingRule, error) {
	var raw []models.CustomMappingRule
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode custom mapping: %w", err)
	}

	rules := make([]models.CustomMappingRule, 0, len(raw))
	for _, rule := range raw {
		rule.ICAO = strings.ToUpper(strings.TrimSpace(rule.ICAO))
		if rule.ICAO == "" {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadCustomMapping loads the custom mapping file, degrading to no rules
func LoadCustomMapping(path string) []models.CustomMappingRule {
	f, err := Open(path)
	if err != nil {
		slog.Debug("No custom mapping file", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	rules, err := ReadCustomMapping(f)
	if err != nil {
		slog.Warn("Ignoring malformed custom mapping", "path", path, "error", err)
		return nil
	}
	return rules
}
