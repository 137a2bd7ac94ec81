// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when JWT_EXPIRES_IN is not configured.
const DefaultTokenTTL = 12 * time.Hour

// ErrInvalidToken covers malformed, expired and badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated principal embedded in a token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TokenIssuer signs and verifies HS256 JWTs for back-office sessions.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with the given signing secret and
// token lifetime. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the identity claims.
func (ti *TokenIssuer) Issue(id Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    id.ID,
		"email": id.Email,
		"name":  id.Name,
		"role":  id.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ti.ttl).Unix(),
	})
	return token.SignedString(ti.secret)
}

// Verify parses and validates a token, returning the embedded identity.
func (ti *TokenIssuer) Verify(raw string) (*Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	id := &Identity{}
	id.ID, _ = claims["id"].(string)
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Role, _ = claims["role"].(string)
	if id.ID == "" {
		return nil, ErrInvalidToken
	}
	return id, nil
}
