// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plberthet/agenda-go/internal/middleware"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/service"
)

// ListEvents handles GET /api/events.
// Anonymous callers get the public agenda (published events only);
// back-office callers see everything, optionally filtered by ?status=.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	backOffice := middleware.HasRole(r, model.RoleEditor, model.RoleModerator, model.RoleAdmin)
	if !backOffice {
		events, err := h.events.ListPublished(r.Context())
		if err != nil {
			writeServiceError(w, err, service.MsgEventNotFound)
			return
		}
		WriteJSON(w, http.StatusOK, events)
		return
	}

	events, err := h.events.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}

// CreateEvent handles POST /api/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decodeBody(w, r, &body) {
		return
	}

	var createdBy *string
	if identity := middleware.GetIdentity(r); identity != nil {
		createdBy = &identity.ID
	}

	ev, err := h.events.Create(r.Context(), body, createdBy)
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusCreated, ev)
}

// UpdateEvent handles PUT /api/events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decodeBody(w, r, &body) {
		return
	}

	ev, err := h.events.Update(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitEvent handles POST /api/events/{id}/submit.
func (h *Handler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}

// PublishEvent handles POST /api/events/{id}/publish.
func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}

// rejectRequest is the body of POST /api/events/{id}/reject.
type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectEvent handles POST /api/events/{id}/reject.
func (h *Handler) RejectEvent(w http.ResponseWriter, r *http.Request) {
	var body rejectRequest
	if !decodeBody(w, r, &body) {
		return
	}

	ev, err := h.events.Reject(r.Context(), chi.URLParam(r, "id"), body.Reason)
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}
