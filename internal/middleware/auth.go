// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization and request context handling.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/plberthet/agenda-go/internal/auth"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the authenticated *auth.Identity.
const ContextKeyIdentity ContextKey = "identity"

// writeErrors writes the uniform JSON error envelope.
func writeErrors(w http.ResponseWriter, statusCode int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{"errors": messages})
}

// OptionalAuth creates middleware that attaches the JWT identity to the
// request context when an Authorization header is present. No header
// means an anonymous request and passes through; a malformed or invalid
// token is rejected with 401.
func OptionalAuth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeErrors(w, http.StatusUnauthorized, "Jeton d'authentification invalide.")
				return
			}

			identity, err := issuer.Verify(parts[1])
			if err != nil {
				writeErrors(w, http.StatusUnauthorized, "Jeton d'authentification invalide.")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated identity from the request
// context, or nil for anonymous requests.
func GetIdentity(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(ContextKeyIdentity).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
