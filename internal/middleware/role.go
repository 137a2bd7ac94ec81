// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import "net/http"

// RoleHeader is the plaintext role header consulted for route gating.
//
// NOTE: this header is client-asserted and not cryptographically tied
// to the JWT carried in Authorization — any caller can claim any role
// by setting it. Kept as-is to match the existing API contract; see
// DESIGN.md before relying on it outside demo deployments.
const RoleHeader = "x-user-role"

// RequireRole creates middleware that gates a route to callers whose
// role header matches one of the allowed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.Header.Get(RoleHeader)
			if role == "" {
				writeErrors(w, http.StatusUnauthorized, "Authentification requise.")
				return
			}
			if _, ok := allowed[role]; !ok {
				writeErrors(w, http.StatusForbidden, "Accès refusé.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasRole reports whether the request carries one of the given roles in
// the role header. Used where a route's behavior (not access) differs
// between public and back-office callers.
func HasRole(r *http.Request, roles ...string) bool {
	role := r.Header.Get(RoleHeader)
	for _, candidate := range roles {
		if role == candidate {
			return true
		}
	}
	return false
}
