// Package fingerprint computes deterministic change digests for tracked entity
// fields.
//
// A fingerprint is a projection, not a full-row hash: callers pass only the
// semantic fields whose change should count as a real change. Operational and
// cosmetic fields (access counters, permissions, tags) stay out by construction.
//
// Field order is significant: the same values in a different order produce a
// different digest. A nil field and an empty string are equivalent, so a source
// flipping between "absent" and "empty" does not register as a change.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// separator joins normalized fields before hashing. The unit separator control
// character never occurs in catalog field values, so "a"+"b" and "ab" cannot
// collide.
const separator = "\x1f"

// Digest returns the hex-encoded SHA-256 fingerprint of the given ordered
// field tuple. Nil fields are treated as empty strings.
func Digest(fields []*string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f != nil {
			parts[i] = *f
		}
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, separator)))
	return hex.EncodeToString(sum[:])
}

// Of is a variadic convenience wrapper around Digest.
func Of(fields ...*string) string {
	return Digest(fields)
}

// String returns a pointer to s, for building field tuples from literals.
func String(s string) *string {
	return &s
}
