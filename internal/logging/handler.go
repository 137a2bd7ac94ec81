// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the store-backed log for the back office.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

// StoreHandler wraps another slog.Handler and also persists records at
// or above a minimum level.
type StoreHandler struct {
	inner slog.Handler
	logs  store.LogStore
	level slog.Level
}

// NewStoreHandler creates a handler persisting WARN+ records.
func NewStoreHandler(inner slog.Handler, logs store.LogStore) *StoreHandler {
	return &StoreHandler{inner: inner, logs: logs, level: slog.LevelWarn}
}

// Enabled implements slog.Handler.
func (h *StoreHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *StoreHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *StoreHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StoreHandler{inner: h.inner.WithAttrs(attrs), logs: h.logs, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *StoreHandler) WithGroup(name string) slog.Handler {
	return &StoreHandler{inner: h.inner.WithGroup(name), logs: h.logs, level: h.level}
}

func (h *StoreHandler) persist(r slog.Record) {
	category := "system"
	attrs := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
		} else {
			attrs[a.Key] = a.Value.String()
		}
		return true
	})

	level := model.LogLevelWarning
	if r.Level >= slog.LevelError {
		level = model.LogLevelError
	}

	metadata := ""
	if len(attrs) > 0 {
		if b, err := json.Marshal(attrs); err == nil {
			metadata = string(b)
		}
	}

	// A background context so records survive request cancellation;
	// persistence failures are dropped to avoid recursive logging.
	_ = h.logs.Insert(context.Background(), model.LogEntry{
		Level:     level,
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}
