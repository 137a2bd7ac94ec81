// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plberthet/agenda-go/internal/auth"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

// UserInput is the admin-user create/update payload.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// Users manages back-office accounts.
type Users struct {
	store *store.Store
}

// NewUsers wires the admin-user service.
func NewUsers(st *store.Store) *Users {
	return &Users{store: st}
}

// List returns all accounts ordered by name.
func (s *Users) List(ctx context.Context) ([]model.AdminUser, error) {
	return s.store.Users.List(ctx)
}

// Get returns one account or ErrNotFound.
func (s *Users) Get(ctx context.Context, id string) (*model.AdminUser, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (in *UserInput) validate(passwordRequired bool) []string {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, MsgNameRequired)
	}
	if strings.TrimSpace(in.Email) == "" {
		errs = append(errs, MsgEmailRequired)
	}
	if !model.ValidRole(in.Role) {
		errs = append(errs, MsgRoleInvalid)
	}
	if passwordRequired && in.Password == "" {
		errs = append(errs, MsgPasswordRequired)
	}
	return errs
}

// Create adds an account; the email must be unique.
func (s *Users) Create(ctx context.Context, in UserInput) (*model.AdminUser, error) {
	if errs := in.validate(true); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	now := time.Now()
	created, err := s.store.Users.Create(ctx, model.AdminUser{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Role:         in.Role,
		PasswordHash: auth.HashPassword(in.Password),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces an account's profile; an empty password keeps the
// current hash.
func (s *Users) Update(ctx context.Context, id string, in UserInput) (*model.AdminUser, error) {
	if errs := in.validate(false); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Email = strings.ToLower(strings.TrimSpace(in.Email))
	current.Role = in.Role
	if in.Password != "" {
		current.PasswordHash = auth.HashPassword(in.Password)
	}
	current.UpdatedAt = time.Now()

	updated, err := s.store.Users.Update(ctx, *current)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes an account.
func (s *Users) Delete(ctx context.Context, id string) error {
	removed, err := s.store.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}
