// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plberthet/agenda-go/internal/model"
)

// NewMemory creates a fully in-memory Store. Each call returns an
// isolated instance so tests never share state.
func NewMemory() *Store {
	return &Store{
		Events:     &memoryEvents{byID: make(map[string]model.Event)},
		Categories: &memoryCategories{byID: make(map[string]model.Category)},
		Users:      &memoryUsers{byID: make(map[string]model.AdminUser)},
		Settings:   &memorySettings{},
		Logs:       &memoryLogs{},
	}
}

type memoryEvents struct {
	mu   sync.RWMutex
	byID map[string]model.Event
}

func (m *memoryEvents) List(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Event, 0, len(m.byID))
	for _, ev := range m.byID {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventStartAt.Before(out[j].EventStartAt) })
	return out, nil
}

func (m *memoryEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (m *memoryEvents) Create(_ context.Context, ev model.Event) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[ev.ID] = ev
	return &ev, nil
}

func (m *memoryEvents) Update(_ context.Context, ev model.Event) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ev.ID]; !ok {
		return nil, nil
	}
	m.byID[ev.ID] = ev
	return &ev, nil
}

func (m *memoryEvents) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

func (m *memoryEvents) UpdateStatus(_ context.Context, id string, change StatusChange) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	ev.Status = change.Status
	ev.PublishedAt = change.PublishedAt
	ev.RejectionReason = change.RejectionReason
	ev.UpdatedAt = time.Now()
	m.byID[id] = ev
	return &ev, nil
}

func (m *memoryEvents) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, ev := range m.byID {
		if ev.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type memoryCategories struct {
	mu   sync.RWMutex
	byID map[string]model.Category
}

func (m *memoryCategories) List(_ context.Context) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryCategories) GetByID(_ context.Context, id string) (*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memoryCategories) Create(_ context.Context, cat model.Category) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[cat.ID]; exists {
		return nil, ErrDuplicate
	}
	m.byID[cat.ID] = cat
	return &cat, nil
}

func (m *memoryCategories) Update(_ context.Context, cat model.Category) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[cat.ID]; !ok {
		return nil, nil
	}
	m.byID[cat.ID] = cat
	return &cat, nil
}

func (m *memoryCategories) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

type memoryUsers struct {
	mu   sync.RWMutex
	byID map[string]model.AdminUser
}

func (m *memoryUsers) List(_ context.Context) ([]model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AdminUser, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) Create(_ context.Context, u model.AdminUser) (*model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, ErrDuplicate
		}
	}
	m.byID[u.ID] = u
	return &u, nil
}

func (m *memoryUsers) Update(_ context.Context, u model.AdminUser) (*model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return nil, nil
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email && existing.ID != u.ID {
			return nil, ErrDuplicate
		}
	}
	m.byID[u.ID] = u
	return &u, nil
}

func (m *memoryUsers) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

func (m *memoryUsers) ListByRoles(_ context.Context, roles ...string) ([]model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.AdminUser
	for _, u := range m.byID {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type memorySettings struct {
	mu       sync.RWMutex
	settings model.Settings
}

func (m *memorySettings) Get(_ context.Context) (*model.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.settings
	return &s, nil
}

func (m *memorySettings) Update(_ context.Context, s model.Settings) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	m.settings = s
	return &s, nil
}

type memoryLogs struct {
	mu      sync.Mutex
	entries []model.LogEntry
	nextID  int64
}

func (m *memoryLogs) Insert(_ context.Context, entry model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	entry.ID = m.nextID
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryLogs) List(_ context.Context, limit int) ([]model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.LogEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
