// Package country defines the closed set of playable countries. Every
// component that validates a country goes through this package so the
// set lives in exactly one place.
package country

import "sort"

// Country is one of the seven playable great powers.
type Country string

const (
	England Country = "england"
	France  Country = "france"
	Germany Country = "germany"
	Italy   Country = "italy"
	Austria Country = "austria"
	Russia  Country = "russia"
	Turkey  Country = "turkey"
)

// Valid reports whether s names a playable country.
func Valid(s string) bool {
	switch Country(s) {
	case England, France, Germany, Italy, Austria, Russia, Turkey:
		return true
	}
	return false
}

// All returns the full country set in stable order.
func All() []Country {
	return []Country{England, France, Germany, Italy, Austria, Russia, Turkey}
}

// Sorted returns a lexicographically sorted copy of names. Used wherever
// a participant set has to be canonicalized before hashing or storage.
func Sorted(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
