// Package id generates the short random identifiers used for notices,
// browser sessions and stream clients.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Identifier prefixes.
const (
	PrefixNotice  = "ntc"
	PrefixSession = "ses"
	PrefixClient  = "sse"
)

// Generate returns prefix, a dash and a 21 character nanoid, e.g. "ses-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system entropy source does.
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", prefix, err)
	}
	return prefix + "-" + raw, nil
}

// MustGenerate is like Generate but panics on failure.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return v
}

// HasPrefix reports whether v was generated with prefix.
// Session cookies are checked with it before they are trusted.
func HasPrefix(v, prefix string) bool {
	rest, ok := strings.CutPrefix(v, prefix+"-")
	return ok && len(rest) == 21
}
