// Package manufacturer turns the upstream free-text manufacturer field into
// canonical manufacturer names.
package manufacturer

import "strings"

// Corrections rewrites known misspellings found upstream. Keys must match a
// trimmed token exactly.
var Corrections = map[string]string{
	"Cyngus Spaceworks": "Cygnus Spaceworks",
}

// Normalize splits raw on "," and "/" and returns the cleaned names in input
// order. Empty tokens and corporate suffixes that were split off on their own
// ("Inc", "Inc.") are dropped. Duplicates are kept; uniqueness is enforced
// when names are stored.
func Normalize(raw string) []string {
	raw = strings.ReplaceAll(raw, "/", ",")

	var names []string
	for _, token := range strings.Split(raw, ",") {
		name := strings.TrimSpace(token)
		if isGarbage(name) {
			continue
		}
		if fixed, ok := Corrections[name]; ok {
			name = fixed
		}
		names = append(names, name)
	}
	return names
}

func isGarbage(token string) bool {
	if token == "" {
		return true
	}
	switch strings.ToLower(token) {
	case "inc", "inc.":
		return true
	}
	return false
}
