// Package auth implements the one-way credential hash. New hashes are
// bcrypt; stored digests from the earlier deployment were plain
// hex-encoded SHA-256, and Verify keeps accepting those so old accounts
// survive the scheme change.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const legacyDigestLen = sha256.Size * 2 // 64 hex chars

// Hash transforms a password into a stored hash using bcrypt at the
// given cost (bcrypt.DefaultCost when cost is 0).
func Hash(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the attempted password matches the stored
// hash. Any failure, including a malformed stored value, is a plain
// mismatch: callers get no signal about why.
func Verify(stored, attempted string) bool {
	if isLegacyDigest(stored) {
		digest := legacyDigest(attempted)
		return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempted)) == nil
}

// legacyDigest computes the unsalted SHA-256 hex digest the previous
// deployment stored.
func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// isLegacyDigest detects a stored value in the old format: exactly 64
// lowercase hex characters. bcrypt hashes always start with "$2" so the
// formats cannot collide.
func isLegacyDigest(stored string) bool {
	if len(stored) != legacyDigestLen {
		return false
	}
	if _, err := hex.DecodeString(stored); err != nil {
		return false
	}
	return true
}
