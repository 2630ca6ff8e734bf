// Package indexcode validates and normalizes market index codes.
package indexcode

import (
	"regexp"
	"strings"
)

// pattern accepts 2-12 uppercase alphanumerics starting with a letter
// (SPX, NDX, DAX40).
var pattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,11}$`)

// Normalize upcases and trims a raw code. Validation happens separately so
// callers can report a precise error.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether a normalized code has the accepted shape.
func Valid(code string) bool {
	return pattern.MatchString(code)
}
