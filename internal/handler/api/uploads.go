// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/plberthet/agenda-go/internal/upload"
)

// UploadImage handles POST /api/uploads. It expects a multipart form
// with the image under the "file" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(upload.MaxImageBytes); err != nil {
		WriteErrors(w, http.StatusBadRequest, "Le fichier est requis.")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		WriteErrors(w, http.StatusBadRequest, "Le fichier est requis.")
		return
	}
	defer file.Close()

	result, err := h.uploads.Process(file)
	if errors.Is(err, upload.ErrUnsupportedFormat) {
		WriteErrors(w, http.StatusBadRequest, "Format d'image non pris en charge.")
		return
	}
	if err != nil {
		slog.Error("image upload failed", "category", "upload", "error", err)
		WriteErrors(w, http.StatusInternalServerError, "Le traitement de l'image a échoué.")
		return
	}

	WriteJSON(w, http.StatusCreated, result)
}
