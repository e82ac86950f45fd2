package scanner

import (
	"strings"
)

// labelSeparator joins an ICAO code and a name in list labels
const labelSeparator = " – "

// CleanName removes a leading ICAO code and the separator after it from a
// reference name, so "LFPG Paris Charles de Gaulle" becomes "Paris Charles de Gaulle".
// An empty remainder falls back to the code itself.
func CleanName(icao, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return icao
	}
	if len(name) < len(icao) || !strings.EqualFold(name[:len(icao)], icao) {
		return name
	}
	rest := name[len(icao):]
	if rest != "" && isAlnum(rest[0]) {
		// LFPGX is not LFPG
		return name
	}
	rest = strings.TrimLeft(rest, " -–—_:|/")
	if rest == "" {
		return icao
	}
	return rest
}

// Label is the "ICAO – name" form used in selection lists
func Label(icao, name string) string {
	clean := CleanName(icao, name)
	if clean == icao {
		return icao
	}
	return icao + labelSeparator + clean
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
