// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Settings is the singleton site configuration edited from the back office.
type Settings struct {
	ContactEmail  string    `json:"contactEmail"`
	ContactPhone  string    `json:"contactPhone"`
	HomepageIntro string    `json:"homepageIntro"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Log entry levels for the back-office event log.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// LogEntry is a persisted application log record (WARN and above).
type LogEntry struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
