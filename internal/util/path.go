// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UploadURLPrefix is the public URL prefix under which locally stored
// images are served. Only images below this prefix are managed (and
// removed) by the server; external URLs are left alone.
const UploadURLPrefix = "/uploads/"

// LocalUploadPath resolves a public image URL to the file it designates
// under uploadDir. It returns "" when the URL does not reference a
// locally stored upload or when it escapes the upload directory.
func LocalUploadPath(uploadDir, imageURL string) string {
	if !strings.HasPrefix(imageURL, UploadURLPrefix) {
		return ""
	}
	name := filepath.Base(strings.TrimPrefix(imageURL, UploadURLPrefix))
	if name == "." || name == ".." || name == "" {
		return ""
	}
	target := filepath.Join(uploadDir, name)
	if err := ValidatePathWithinBase(uploadDir, target); err != nil {
		return ""
	}
	return target
}

// ValidatePathWithinBase ensures that a resolved path stays inside the
// expected base directory once both are cleaned and made absolute.
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}
	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}
	// Trailing separator prevents /uploads matching /uploads-evil.
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory")
	}
	return nil
}
