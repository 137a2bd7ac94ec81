// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plberthet/agenda-go/internal/auth"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/util"
)

// Default admin credentials seeded on an empty database. The password
// must be changed after the first login.
const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin"
)

var seedCategories = []string{
	"Concert",
	"Théâtre",
	"Exposition",
	"Atelier",
	"Conférence",
	"Festivités",
}

// Seed populates an empty store with a default admin account and the
// starter category set. It is a no-op when accounts already exist, or
// when enabled is false.
func Seed(ctx context.Context, s *Store, enabled bool) error {
	if !enabled {
		return nil
	}

	users, err := s.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("checking existing users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	now := time.Now()
	admin := model.AdminUser{
		ID:           uuid.NewString(),
		Name:         "Administrateur",
		Email:        seedAdminEmail,
		Role:         model.RoleAdmin,
		PasswordHash: auth.HashPassword(seedAdminPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	slog.Warn("seeded default admin account, change its password",
		"email", seedAdminEmail)

	for _, name := range seedCategories {
		cat := model.Category{
			ID:        util.Slugify(name),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.Categories.Create(ctx, cat); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}
	slog.Info("seeded starter categories", "count", len(seedCategories))

	return nil
}
