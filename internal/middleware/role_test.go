// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequireRole(t *testing.T) {
	handler := RequireRole("MODERATOR", "ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		role       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "allowed role",
			role:       "ADMIN",
			wantStatus: http.StatusOK,
		},
		{
			name:       "other allowed role",
			role:       "MODERATOR",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			role:       "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authentification requise.",
		},
		{
			name:       "insufficient role",
			role:       "EDITOR",
			wantStatus: http.StatusForbidden,
			wantBody:   "Accès refusé.",
		},
		{
			name:       "unknown role",
			role:       "CHEF",
			wantStatus: http.StatusForbidden,
			wantBody:   "Accès refusé.",
		},
		{
			name:       "case sensitive",
			role:       "admin",
			wantStatus: http.StatusForbidden,
			wantBody:   "Accès refusé.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != "" {
				req.Header.Set(RoleHeader, tt.role)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if HasRole(req, "EDITOR") {
		t.Error("request without header should have no role")
	}

	req.Header.Set(RoleHeader, "EDITOR")
	if !HasRole(req, "EDITOR", "ADMIN") {
		t.Error("EDITOR should match")
	}
	if HasRole(req, "ADMIN") {
		t.Error("EDITOR should not match ADMIN only")
	}
}
