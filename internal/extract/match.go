package extract

import (
	"strings"
)

func isUpperAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isAlnum(c byte) bool {
	return isUpperAlnum(c) || (c >= 'a' && c <= 'z')
}

func hasLetter(s []byte) bool {
	for _, c := range s {
		if c >= 'A' && c <= 'Z' {
			return true
		}
	}
	return false
}

// fourCharRun returns the first run of exactly four uppercase letters or
// digits (with at least one letter) for which accept returns true
func fourCharRun(b []byte, accept func(string) bool) string {
	start := -1
	for i := 0; i <= len(b); i++ {
		if i < len(b) && isUpperAlnum(b[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start == 4 && hasLetter(b[start:i]) {
			if code := string(b[start:i]); accept(code) {
				return code
			}
		}
		start = -1
	}
	return ""
}

// tokens splits s into alphanumeric words
func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r > 0x7f || !isAlnum(byte(r))
	})
}

// knownToken returns the first word of s that is a known code
func knownToken(s string, known Codes) string {
	for _, tok := range tokens(s) {
		if up := strings.ToUpper(tok); len(up) == 4 && known.Has(up) {
			return up
		}
	}
	return ""
}

// knownSubstring returns the first 4-character alphanumeric window of s
// that is a known code
func knownSubstring(s string, known Codes) string {
	up := strings.ToUpper(s)
	for i := 0; i+4 <= len(up); i++ {
		w := up[i : i+4]
		if isUpperAlnum(w[0]) && isUpperAlnum(w[1]) && isUpperAlnum(w[2]) && isUpperAlnum(w[3]) && known.Has(w) {
			return w
		}
	}
	return ""
}

// pipeCandidate handles fields listing several possible codes separated by
// '|': the first known candidate wins, otherwise the first 4-character token
func pipeCandidate(s string, known Codes) string {
	if !strings.Contains(s, "|") {
		return ""
	}
	var fallback string
	for _, part := range strings.Split(s, "|") {
		for _, tok := range tokens(part) {
			up := strings.ToUpper(tok)
			if len(up) != 4 {
				continue
			}
			if known.Has(up) {
				return up
			}
			if fallback == "" {
				fallback = up
			}
		}
	}
	return fallback
}

// noCodes is used when the caller has no reference table
type noCodes struct{}

func (noCodes) Has(string) bool { return false }
