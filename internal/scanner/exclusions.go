package scanner

import (
	"regexp"
	"strings"

	"msfs_hangar/internal/models"
)

// Exclusions lists manufacturer demo and stock liveries that never make it
// into the results
type Exclusions struct {
	Companies     []string
	Registrations []string
	PathPatterns  []*regexp.Regexp
}

// DefaultExclusions covers the liveries shipped with the Fenix and Asobo airframes
var DefaultExclusions = Exclusions{
	Companies:     []string{"Fenix", "Fenix Simulations", "Asobo", "Microsoft", "Airbus"},
	Registrations: []string{"G-FENX", "F-WWBA", "D-AVVA", "F-WXWB"},
	PathPatterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)fnx-aircraft-[a-z0-9-]*-stock`),
		regexp.MustCompile(`(?i)asobo-aircraft-`),
	},
}

// Match returns why a record is excluded, or "" when it is kept
func (e Exclusions) Match(rec models.AircraftRecord) string {
	for _, c := range e.Companies {
		if strings.EqualFold(strings.TrimSpace(rec.Company), c) {
			return "stock company " + c
		}
	}
	for _, r := range e.Registrations {
		if strings.EqualFold(rec.Registration, r) {
			return "stock registration " + r
		}
	}
	path := strings.ReplaceAll(rec.Path, `\`, "/")
	for _, re := range e.PathPatterns {
		if re.MatchString(path) {
			return "stock package " + re.String()
		}
	}
	return ""
}

// RegistrationRule rewrites registrations of one airline, or of every airline
// when Airline is empty
type RegistrationRule struct {
	Airline string
	Pattern *regexp.Regexp
	Replace string
}

// DefaultRegistrationRules fixes tail numbers that livery packs ship without
// the country prefix dash (FHBNK instead of F-HBNK), plus the easyJet packs
// that use the Swiss and Austrian prefixes with a lowercase suffix.
var DefaultRegistrationRules = []RegistrationRule{
	{Airline: "EZY", Pattern: regexp.MustCompile(`^G([A-Z]{4})$`), Replace: "G-$1"},
	{Airline: "EZS", Pattern: regexp.MustCompile(`^HB([A-Z]{3})$`), Replace: "HB-$1"},
	{Airline: "EJU", Pattern: regexp.MustCompile(`^OE([A-Z]{3})$`), Replace: "OE-$1"},
	{Pattern: regexp.MustCompile(`^([DFG])([A-Z]{4})$`), Replace: "$1-$2"},
}

// NormalizeRegistration upper-cases a registration and applies the first
// matching rule
func NormalizeRegistration(airline, registration string, rules []RegistrationRule) string {
	reg := strings.ToUpper(strings.TrimSpace(registration))
	for _, r := range rules {
		if r.Airline != "" && !strings.EqualFold(r.Airline, airline) {
			continue
		}
		if r.Pattern.MatchString(reg) {
			return r.Pattern.ReplaceAllString(reg, r.Replace)
		}
	}
	return reg
}
