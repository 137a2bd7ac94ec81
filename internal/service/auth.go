// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"

	"github.com/plberthet/agenda-go/internal/auth"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

// LoginResult carries the issued token and the authenticated profile.
type LoginResult struct {
	Token string          `json:"token"`
	User  model.AdminUser `json:"user"`
}

// Auth implements back-office login.
type Auth struct {
	store  *store.Store
	issuer *auth.TokenIssuer
}

// NewAuth wires the auth service.
func NewAuth(st *store.Store, issuer *auth.TokenIssuer) *Auth {
	return &Auth{store: st, issuer: issuer}
}

// Login verifies the credentials and issues a signed token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var errs []string
	if strings.TrimSpace(email) == "" {
		errs = append(errs, MsgEmailRequired)
	}
	if password == "" {
		errs = append(errs, MsgPasswordRequired)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	user, err := s.store.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: *user}, nil
}
