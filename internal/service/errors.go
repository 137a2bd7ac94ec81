// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service orchestrates validation, geocoding, persistence and
// notifications behind the HTTP handlers.
package service

import (
	"errors"
	"strings"
)

// User-facing messages for business-rule failures.
const (
	MsgEventNotFound           = "Événement introuvable."
	MsgCategoryNotFound        = "Catégorie introuvable."
	MsgUserNotFound            = "Utilisateur introuvable."
	MsgSettingsNotFound        = "Paramètres introuvables."
	MsgCategoryInUse           = "La catégorie est utilisée par au moins un événement."
	MsgDuplicateCategory       = "Cette catégorie existe déjà."
	MsgCategoryNameRequired    = "Le nom de la catégorie est requis."
	MsgDuplicateEmail          = "Un compte utilise déjà cette adresse e-mail."
	MsgInvalidCredentials      = "Identifiants invalides."
	MsgEmailRequired           = "L'adresse e-mail est requise."
	MsgPasswordRequired        = "Le mot de passe est requis."
	MsgNameRequired            = "Le nom est requis."
	MsgRoleInvalid             = "Le rôle est invalide."
	MsgRejectionReasonRequired = "Le motif du refus est requis."
	MsgNotSubmittable          = "Seuls les brouillons et les événements refusés peuvent être soumis."
	MsgGeocoderUnavailable     = "Le service de géolocalisation est indisponible."
)

// Typed errors mapped to HTTP statuses by the handler layer.
var (
	ErrNotFound            = errors.New("not found")
	ErrCategoryInUse       = errors.New(MsgCategoryInUse)
	ErrDuplicateCategory   = errors.New(MsgDuplicateCategory)
	ErrDuplicateEmail      = errors.New(MsgDuplicateEmail)
	ErrInvalidCredentials  = errors.New(MsgInvalidCredentials)
	ErrInvalidTransition   = errors.New(MsgNotSubmittable)
	ErrGeocoderUnavailable = errors.New(MsgGeocoderUnavailable)
)

// ValidationError carries the full accumulated list of messages for a
// rejected payload.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, " ")
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// AsValidation extracts a ValidationError from err, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
