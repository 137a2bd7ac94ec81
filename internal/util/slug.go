// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers: slug generation with accent
// folding and safe upload-path handling.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a human-readable name.
// Accents are folded ("Théâtre" -> "theatre"), anything that is not a
// lowercase letter or digit collapses to a single hyphen.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, _ := transform.String(t, name)
	folded = strings.ToLower(folded)
	folded = nonSlugChars.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// IsValidSlug reports whether s is a well-formed slug: lowercase
// letters, digits and single hyphens, not starting or ending with one.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
