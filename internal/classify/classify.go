// Package classify decides from a folder name alone whether a simulator
// package folder is worth inspecting as an airport or an aircraft.
package classify

import (
	"regexp"
	"strings"
)

// Blacklist holds keywords that mark a folder as irrelevant. It is checked
// before any positive heuristic.
var Blacklist = []string{
	"traffic",
	"heliport",
	"helipad",
	"scenery",
	"library",
	"wasm",
	"liveries",
	"landmark",
	"mesh",
	"vegetation",
	"weather",
	"toolbar",
	"navdata",
	"asobo-base",
	"fs-base",
	"fs24-base",
	"seaplane",
}

var (
	bareCodeRe      = regexp.MustCompile(`^[A-Z0-9]{4}$`)
	airportCodeRe   = regexp.MustCompile(`(?i)airport-([a-z0-9]{4})(?:[^a-z0-9]|$)`)
	liveryPackageRe = regexp.MustCompile(`(?i)^[a-z0-9]+-aircraft-[a-z0-9-]+-liveries$`)
	tokenSplitRe    = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// Blacklisted returns the first blacklist keyword contained in name, or ""
func Blacklisted(name string) string {
	n := strings.ToLower(name)
	for _, kw := range Blacklist {
		if strings.Contains(n, kw) {
			return kw
		}
	}
	return ""
}

// IsAirportFolder reports whether name looks like an airport package
func IsAirportFolder(name string) bool {
	if Blacklisted(name) != "" {
		return false
	}
	return bareCodeRe.MatchString(strings.ToUpper(name)) ||
		airportCodeRe.MatchString(name) ||
		strings.Contains(strings.ToLower(name), "airport")
}

// IsAircraftFolder reports whether name looks like an aircraft package
func IsAircraftFolder(name string) bool {
	if Blacklisted(name) != "" {
		return false
	}
	n := strings.ToLower(name)
	return strings.Contains(n, "aircraft") || strings.Contains(n, "livery")
}

// IsLiveryPackage matches vendor livery bundles such as fnx-aircraft-320-liveries.
// These carry the blacklisted "liveries" keyword so they get their own rule.
func IsLiveryPackage(name string) bool {
	return liveryPackageRe.MatchString(name)
}

// AirportCode returns the ICAO code a folder name spells out directly,
// either as the whole name or as an airport-XXXX segment
func AirportCode(name string) string {
	if up := strings.ToUpper(name); bareCodeRe.MatchString(up) {
		return up
	}
	if m := airportCodeRe.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ICAOCandidates lists the 4-character alphanumeric tokens of a folder name
// that contain at least one letter, uppercased and deduplicated
func ICAOCandidates(name string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range tokenSplitRe.Split(name, -1) {
		if len(tok) != 4 || !strings.ContainsAny(strings.ToUpper(tok), "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			continue
		}
		tok = strings.ToUpper(tok)
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
