// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

func newTestLogger(logs store.LogStore) *slog.Logger {
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewStoreHandler(inner, logs))
}

func TestHandlerPersistsWarnAndAbove(t *testing.T) {
	st := store.NewMemory()
	logger := newTestLogger(st.Logs)

	logger.Info("routine startup")
	logger.Warn("smtp not configured")
	logger.Error("database gone")

	entries, err := st.Logs.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("persisted %d entries, want 2 (INFO skipped)", len(entries))
	}
	// Newest first.
	if entries[0].Level != model.LogLevelError || entries[0].Message != "database gone" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Level != model.LogLevelWarning || entries[1].Message != "smtp not configured" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestHandlerCategoryAndMetadata(t *testing.T) {
	st := store.NewMemory()
	logger := newTestLogger(st.Logs)

	logger.Warn("delivery failed", "category", "mail", "to", "claire@mairie.fr")

	entries, _ := st.Logs.List(context.Background(), 1)
	if len(entries) != 1 {
		t.Fatalf("persisted %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Category != "mail" {
		t.Errorf("Category = %q, want mail", entry.Category)
	}
	if !strings.Contains(entry.Metadata, `"to":"claire@mairie.fr"`) {
		t.Errorf("Metadata = %q", entry.Metadata)
	}

	logger.Warn("no category attr")
	entries, _ = st.Logs.List(context.Background(), 1)
	if entries[0].Category != "system" {
		t.Errorf("default category = %q, want system", entries[0].Category)
	}
}
