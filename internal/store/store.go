// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the data-access layer. Each entity exposes a
// small interface with two implementations: an in-memory store used by
// tests (and as a fallback when no database is configured) and a
// PostgreSQL store used in production.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/plberthet/agenda-go/internal/model"
)

// ErrDuplicate is returned when a unique constraint (category slug,
// user email) is violated.
var ErrDuplicate = errors.New("duplicate record")

// StatusChange describes an event lifecycle transition write.
type StatusChange struct {
	Status          string
	PublishedAt     *time.Time
	RejectionReason *string
}

// EventStore is the event data-access contract. Lookups on a missing
// id return (nil, nil) rather than an error; Delete reports whether a
// record was actually removed.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, ev model.Event) (*model.Event, error)
	Update(ctx context.Context, ev model.Event) (*model.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id string, change StatusChange) (*model.Event, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

// CategoryStore is the category data-access contract.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, cat model.Category) (*model.Category, error)
	Update(ctx context.Context, cat model.Category) (*model.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserStore is the admin-user data-access contract.
type UserStore interface {
	List(ctx context.Context) ([]model.AdminUser, error)
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	Create(ctx context.Context, u model.AdminUser) (*model.AdminUser, error)
	Update(ctx context.Context, u model.AdminUser) (*model.AdminUser, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByRoles(ctx context.Context, roles ...string) ([]model.AdminUser, error)
}

// SettingsStore reads and writes the singleton site settings record.
type SettingsStore interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, s model.Settings) (*model.Settings, error)
}

// LogStore persists application log entries for the back office.
type LogStore interface {
	Insert(ctx context.Context, entry model.LogEntry) error
	List(ctx context.Context, limit int) ([]model.LogEntry, error)
}

// Store bundles the per-entity stores behind one injection point.
type Store struct {
	Events     EventStore
	Categories CategoryStore
	Users      UserStore
	Settings   SettingsStore
	Logs       LogStore
}
