// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

// Settings reads and writes the singleton site configuration.
type Settings struct {
	store *store.Store
}

// NewSettings wires the settings service.
func NewSettings(st *store.Store) *Settings {
	return &Settings{store: st}
}

// Get returns the current settings record.
func (s *Settings) Get(ctx context.Context) (*model.Settings, error) {
	return s.store.Settings.Get(ctx)
}

// Update replaces the settings record.
func (s *Settings) Update(ctx context.Context, in model.Settings) (*model.Settings, error) {
	return s.store.Settings.Update(ctx, in)
}
