// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/plberthet/agenda-go/internal/auth"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

func TestUsersCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewUsers(store.NewMemory())

	user, err := svc.Create(ctx, UserInput{
		Name:     "Claire",
		Email:    "Claire@Mairie.FR",
		Role:     model.RoleModerator,
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Email != "claire@mairie.fr" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
	if user.PasswordHash != auth.HashPassword("s3cret") {
		t.Error("password should be stored hashed")
	}

	if _, err := svc.Create(ctx, UserInput{
		Name:     "Autre",
		Email:    "claire@mairie.fr",
		Role:     model.RoleEditor,
		Password: "x",
	}); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate email Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestUsersCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewUsers(store.NewMemory())

	_, err := svc.Create(ctx, UserInput{Role: "CHEF"})
	verr, ok := AsValidation(err)
	if !ok {
		t.Fatalf("error = %v, want validation error", err)
	}
	for _, want := range []string{MsgNameRequired, MsgEmailRequired, MsgRoleInvalid, MsgPasswordRequired} {
		if !containsMsg(verr.Messages, want) {
			t.Errorf("Messages %v missing %q", verr.Messages, want)
		}
	}
}

func TestUsersUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewUsers(store.NewMemory())

	user, err := svc.Create(ctx, UserInput{
		Name:     "Claire",
		Email:    "claire@mairie.fr",
		Role:     model.RoleModerator,
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// An empty password keeps the stored hash.
	updated, err := svc.Update(ctx, user.ID, UserInput{
		Name:  "Claire Martin",
		Email: "claire@mairie.fr",
		Role:  model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PasswordHash != auth.HashPassword("s3cret") {
		t.Error("empty password must keep the current hash")
	}
	if updated.Role != model.RoleAdmin || updated.Name != "Claire Martin" {
		t.Errorf("updated = %+v", updated)
	}

	// A new password replaces the hash.
	updated, err = svc.Update(ctx, user.ID, UserInput{
		Name:     "Claire Martin",
		Email:    "claire@mairie.fr",
		Role:     model.RoleAdmin,
		Password: "nouveau",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PasswordHash != auth.HashPassword("nouveau") {
		t.Error("new password should replace the hash")
	}

	if _, err := svc.Update(ctx, "nope", UserInput{Name: "X", Email: "x@y.fr", Role: model.RoleEditor}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUsersDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewUsers(store.NewMemory())

	user, err := svc.Create(ctx, UserInput{
		Name:     "Paul",
		Email:    "paul@mairie.fr",
		Role:     model.RoleEditor,
		Password: "x",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
