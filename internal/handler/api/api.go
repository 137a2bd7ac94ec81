// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers consumed by the public agenda
// and the back office.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plberthet/agenda-go/internal/geocode"
	"github.com/plberthet/agenda-go/internal/service"
	"github.com/plberthet/agenda-go/internal/upload"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	events     *service.Events
	categories *service.Categories
	users      *service.Users
	settings   *service.Settings
	auth       *service.Auth
	geocoder   service.Geocoder
	uploads    *upload.Processor
}

// NewHandler creates the API handler set.
func NewHandler(
	events *service.Events,
	categories *service.Categories,
	users *service.Users,
	settings *service.Settings,
	authSvc *service.Auth,
	geocoder service.Geocoder,
	uploads *upload.Processor,
) *Handler {
	return &Handler{
		events:     events,
		categories: categories,
		users:      users,
		settings:   settings,
		auth:       authSvc,
		geocoder:   geocoder,
		uploads:    uploads,
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteErrors writes the uniform error envelope {"errors": [...]}.
func WriteErrors(w http.ResponseWriter, statusCode int, messages ...string) {
	WriteJSON(w, statusCode, map[string]any{"errors": messages})
}

// writeServiceError maps a service error to its HTTP representation.
// notFoundMsg names the entity for 404 responses.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	if ve, ok := service.AsValidation(err); ok {
		WriteErrors(w, http.StatusBadRequest, ve.Messages...)
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteErrors(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteErrors(w, http.StatusUnauthorized, service.MsgInvalidCredentials)
	case errors.Is(err, service.ErrDuplicateCategory):
		WriteErrors(w, http.StatusConflict, service.MsgDuplicateCategory)
	case errors.Is(err, service.ErrCategoryInUse):
		WriteErrors(w, http.StatusConflict, service.MsgCategoryInUse)
	case errors.Is(err, service.ErrDuplicateEmail):
		WriteErrors(w, http.StatusConflict, service.MsgDuplicateEmail)
	case errors.Is(err, service.ErrInvalidTransition):
		WriteErrors(w, http.StatusConflict, service.MsgNotSubmittable)
	case errors.Is(err, service.ErrGeocoderUnavailable):
		WriteErrors(w, http.StatusBadGateway, service.MsgGeocoderUnavailable)
	case errors.Is(err, geocode.ErrUnavailable):
		WriteErrors(w, http.StatusBadGateway, service.MsgGeocoderUnavailable)
	default:
		slog.Error("unhandled API error", "error", err)
		WriteErrors(w, http.StatusInternalServerError, "Une erreur interne est survenue.")
	}
}

// decodeBody decodes a JSON request body into dst, answering 400 on
// malformed JSON. Returns false when a response was already written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrors(w, http.StatusBadRequest, "Corps de requête JSON invalide.")
		return false
	}
	return true
}
