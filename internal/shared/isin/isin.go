// Package isin validates International Securities Identification Numbers
// (ISO 6166).
package isin

import "strings"

// Length is the fixed length of an ISIN: a two-letter country code, a
// nine-character alphanumeric identifier, and one check digit.
const Length = 12

// Normalize upcases and trims a raw code. Validation happens separately so
// callers can report a precise error.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is a well-formed ISIN with a correct check digit.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	for i := 2; i < Length-1; i++ {
		if !isUpperAlnum(code[i]) {
			return false
		}
	}
	last := code[Length-1]
	if last < '0' || last > '9' {
		return false
	}
	return CheckDigit(code[:Length-1]) == int(last-'0')
}

// CheckDigit computes the ISO 6166 check digit for the first eleven
// characters of an ISIN. Letters expand to two digits (A=10 .. Z=35) before
// the Luhn sum; the digit immediately left of the check position is doubled
// first, then every second digit moving left.
func CheckDigit(body string) int {
	digits := make([]int, 0, len(body)*2)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, int(c-'0'))
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			digits = append(digits, v/10, v%10)
		}
	}

	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return (10 - sum%10) % 10
}

func isUpperAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
}
