// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides credential hashing and JWT issuance/verification.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of password.
//
// NOTE: unsalted SHA-256 is what the existing account records use; every
// stored hash would have to be reset to migrate to a password KDF. Kept
// as-is until such a migration is scheduled.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword verifies password against a stored hex digest using a
// constant-time comparison.
func CheckPassword(password, storedHash string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
