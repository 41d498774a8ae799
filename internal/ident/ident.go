// Package ident derives the short identifiers the front end uses in build
// strings. Every function is deterministic: the same input always yields the
// same identifier, independent of row order.
package ident

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashLength is the number of hex characters kept from an MD5 digest.
const HashLength = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// HashID returns the first HashLength hex characters of the MD5 digest of s.
//
// Postcondition: result is exactly HashLength characters from [0-9a-f].
func HashID(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:HashLength]
}

// UniqueName joins parts with underscores after lower-casing each of them.
func UniqueName(parts ...string) string {
	lowered := make([]string, len(parts))
	for i, p := range parts {
		lowered[i] = strings.ToLower(p)
	}
	return strings.Join(lowered, "_")
}

// Letters keeps only the characters 'a' through 'z' of s. Upper-case letters
// are dropped, not folded; callers lower-case first where they need them.
//
// Postcondition: result contains only [a-z] and Letters(Letters(s)) == Letters(s).
func Letters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PositionLetter returns the n-th upper-case letter (0 -> "A").
//
// Postcondition: ok is false when n is outside [0, 25].
func PositionLetter(n int) (string, bool) {
	if n < 0 || n >= len(alphabet) {
		return "", false
	}
	return alphabet[n : n+1], true
}
