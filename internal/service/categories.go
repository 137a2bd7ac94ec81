// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
	"github.com/plberthet/agenda-go/internal/util"
)

// Categories manages the category referential. A category's id is the
// slug of its name, fixed at creation time.
type Categories struct {
	store *store.Store
}

// NewCategories wires the category service.
func NewCategories(st *store.Store) *Categories {
	return &Categories{store: st}
}

// List returns all categories ordered by name.
func (s *Categories) List(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories.List(ctx)
}

// Get returns one category or ErrNotFound.
func (s *Categories) Get(ctx context.Context, id string) (*model.Category, error) {
	cat, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNotFound
	}
	return cat, nil
}

// Create derives the slug id from name and persists the category.
func (s *Categories) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError(MsgCategoryNameRequired)
	}
	slug := util.Slugify(name)
	if slug == "" {
		return nil, NewValidationError(MsgCategoryNameRequired)
	}

	now := time.Now()
	created, err := s.store.Categories.Create(ctx, model.Category{
		ID:        slug,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrDuplicateCategory
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update renames a category. The slug id is stable; only the display
// name changes.
func (s *Categories) Update(ctx context.Context, id, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError(MsgCategoryNameRequired)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = name
	current.UpdatedAt = time.Now()
	updated, err := s.store.Categories.Update(ctx, *current)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes a category unless any event still references it.
func (s *Categories) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.store.Events.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	removed, err := s.store.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
