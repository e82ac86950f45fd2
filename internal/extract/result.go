// Package extract pulls ICAO codes and livery metadata out of simulator
// package files. Every stage reports a Result instead of an error: a
// missing or unreadable source is simply NotFound.
package extract

// Stage names the heuristic that produced a Result
type Stage string

const (
	StageManifest       Stage = "manifest"
	StageCustomMapping  Stage = "custom_mapping"
	StageContentHistory Stage = "content_history"
	StageBGL            Stage = "bgl"
)

// Result is the outcome of one extraction stage
type Result struct {
	ICAO  string
	Name  string
	Stage Stage
	found bool
}

// NotFound is the empty Result
var NotFound = Result{}

// Found builds a successful Result
func Found(icao, name string, stage Stage) Result {
	return Result{ICAO: icao, Name: name, Stage: stage, found: true}
}

// Ok reports whether the stage resolved a code
func (r Result) Ok() bool {
	return r.found
}

// Codes is the set of ICAO codes considered valid
type Codes interface {
	Has(icao string) bool
}
