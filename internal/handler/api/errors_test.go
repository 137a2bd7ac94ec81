// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plberthet/agenda-go/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		notFoundMsg string
		wantStatus  int
		wantMsg     string
	}{
		{
			name:        "event not found",
			err:         service.ErrNotFound,
			notFoundMsg: service.MsgEventNotFound,
			wantStatus:  http.StatusNotFound,
			wantMsg:     "Événement introuvable.",
		},
		{
			name:        "settings not found",
			err:         service.ErrNotFound,
			notFoundMsg: service.MsgSettingsNotFound,
			wantStatus:  http.StatusNotFound,
			wantMsg:     "Paramètres introuvables.",
		},
		{
			name:        "validation error",
			err:         service.NewValidationError(service.MsgNameRequired),
			notFoundMsg: service.MsgUserNotFound,
			wantStatus:  http.StatusBadRequest,
			wantMsg:     service.MsgNameRequired,
		},
		{
			name:        "duplicate category",
			err:         service.ErrDuplicateCategory,
			notFoundMsg: service.MsgCategoryNotFound,
			wantStatus:  http.StatusConflict,
			wantMsg:     service.MsgDuplicateCategory,
		},
		{
			name:        "geocoder unavailable",
			err:         service.ErrGeocoderUnavailable,
			notFoundMsg: service.MsgEventNotFound,
			wantStatus:  http.StatusBadGateway,
			wantMsg:     service.MsgGeocoderUnavailable,
		},
		{
			name:        "unexpected error",
			err:         errors.New("boom"),
			notFoundMsg: service.MsgEventNotFound,
			wantStatus:  http.StatusInternalServerError,
			wantMsg:     "Une erreur interne est survenue.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tc.err, tc.notFoundMsg)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			msgs := decodeErrors(t, rec)
			if len(msgs) != 1 || msgs[0] != tc.wantMsg {
				t.Errorf("errors = %v, want [%q]", msgs, tc.wantMsg)
			}
		})
	}
}
