package models

// CustomMappingRule forces an ICAO code for packages whose creator and title
// both contain the given substrings
type CustomMappingRule struct {
	Creator string `json:"creator"`
	Title   string `json:"title"`
	ICAO    string `json:"icao"`
}
