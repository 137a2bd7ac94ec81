// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/plberthet/agenda-go/internal/geocode"
	"github.com/plberthet/agenda-go/internal/service"
)

// Geocode handles GET /api/geocoding?q=… for back-office address
// lookups. A query that resolves to nothing returns null coordinates.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteErrors(w, http.StatusBadRequest, "Le paramètre q est requis.")
		return
	}

	coords, err := h.geocoder.Search(r.Context(), query)
	if errors.Is(err, geocode.ErrUnavailable) {
		WriteErrors(w, http.StatusBadGateway, service.MsgGeocoderUnavailable)
		return
	}
	if err != nil {
		writeServiceError(w, err, service.MsgEventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, coords)
}
