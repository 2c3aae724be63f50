package address

import (
	"regexp"
	"strings"
)

// Matches a 5-digit postal code followed by the city name, e.g.
// "Torstraße 125, 10119 Berlin" or "75001 Paris". The captured run allows
// accented letters, spaces and hyphens ("10623 Berlin-Charlottenburg").
var postalCityRe = regexp.MustCompile(`\b\d{5}\s+([\p{L}][\p{L}\s-]*)`)

// ExtractCity derives a city name from a free-text address.
// Best-effort heuristic, no lookups:
//  1. postal code followed by a word run -> that run
//  2. otherwise second-to-last comma segment
//  3. otherwise not found
func ExtractCity(addr string) (string, bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", false
	}

	if m := postalCityRe.FindStringSubmatch(addr); m != nil {
		city := strings.TrimSpace(m[1])
		if city != "" {
			return city, true
		}
	}

	parts := strings.Split(addr, ",")
	if len(parts) >= 2 {
		city := strings.TrimSpace(parts[len(parts)-2])
		if city != "" {
			return city, true
		}
	}

	return "", false
}
