// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plberthet/agenda-go/internal/service"
)

// categoryRequest is the create/update body for categories.
type categoryRequest struct {
	Name string `json:"name"`
}

// ListCategories handles GET /api/categories (public).
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		writeServiceError(w, err, service.MsgCategoryNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/admin/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if !decodeBody(w, r, &body) {
		return
	}

	cat, err := h.categories.Create(r.Context(), body.Name)
	if err != nil {
		writeServiceError(w, err, service.MsgCategoryNotFound)
		return
	}
	WriteJSON(w, http.StatusCreated, cat)
}

// UpdateCategory handles PUT /api/admin/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if !decodeBody(w, r, &body) {
		return
	}

	cat, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), body.Name)
	if err != nil {
		writeServiceError(w, err, service.MsgCategoryNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, service.MsgCategoryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
