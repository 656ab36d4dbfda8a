// Package normalize provides utilities for normalizing and sanitizing form input.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field trims s, drops null bytes and control characters, and puts it in
// Unicode NFC so that visually equal names compare equal.
func Field(s string) string {
	return norm.NFC.String(strings.TrimSpace(sanitizeString(s)))
}

// Fields applies Field to every pointed-to string.
func Fields(ptrs ...*string) {
	for _, p := range ptrs {
		*p = Field(*p)
	}
}

// Spaces collapses runs of whitespace inside s to one space.
func Spaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeString removes null bytes and other control characters except
// ordinary whitespace.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return -1
		}
		return r
	}, s)
}
