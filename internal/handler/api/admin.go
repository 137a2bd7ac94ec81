// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/service"
)

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err, service.MsgUserNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /api/admin/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body service.UserInput
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := h.users.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, err, service.MsgUserNotFound)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/admin/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body service.UserInput
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeServiceError(w, err, service.MsgUserNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, service.MsgUserNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /api/settings (public).
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, service.MsgSettingsNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/admin/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body model.Settings
	if !decodeBody(w, r, &body) {
		return
	}

	settings, err := h.settings.Update(r.Context(), body)
	if err != nil {
		writeServiceError(w, err, service.MsgSettingsNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}
