// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"testing"

	"github.com/plberthet/agenda-go/internal/auth"
	"github.com/plberthet/agenda-go/internal/model"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := Seed(ctx, s, true); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	admin, err := s.Users.GetByEmail(ctx, "admin@example.com")
	if err != nil || admin == nil {
		t.Fatalf("GetByEmail(admin) = %v, %v", admin, err)
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want ADMIN", admin.Role)
	}
	if !auth.CheckPassword("admin", admin.PasswordHash) {
		t.Error("seeded admin password should be 'admin'")
	}

	categories, err := s.Categories.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 6 {
		t.Errorf("seeded %d categories, want 6", len(categories))
	}
	byID := make(map[string]bool, len(categories))
	for _, c := range categories {
		byID[c.ID] = true
	}
	for _, id := range []string{"concert", "theatre", "exposition", "atelier", "conference", "festivites"} {
		if !byID[id] {
			t.Errorf("missing seeded category %q", id)
		}
	}

	// A second run must not duplicate anything.
	if err := Seed(ctx, s, true); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	users, _ := s.Users.List(ctx)
	if len(users) != 1 {
		t.Errorf("users after reseed = %d, want 1", len(users))
	}
}

func TestSeedDisabled(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := Seed(ctx, s, false); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	users, _ := s.Users.List(ctx)
	if len(users) != 0 {
		t.Errorf("disabled Seed() created %d users", len(users))
	}
}
