// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate checks raw JSON payloads and produces either a typed,
// sanitized draft or the full accumulated list of error messages.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/sanitize"
)

// Validation messages, as rendered to the editor.
const (
	MsgTitleRequired      = "Le titre est requis."
	MsgContentRequired    = "Le contenu est requis."
	MsgContentEmpty       = "Le contenu ne peut pas être vide."
	MsgImageRequired      = "L'image est requise."
	MsgCategoryRequired   = "La catégorie est requise."
	MsgStartDateRequired  = "La date de début est requise."
	MsgEndDateRequired    = "La date de fin est requise."
	MsgStartDateInvalid   = "La date de début est invalide."
	MsgEndDateInvalid     = "La date de fin est invalide."
	MsgEndBeforeStart     = "La date de fin doit être postérieure à la date de début."
	MsgVenueRequired      = "Le lieu est requis."
	MsgAddressRequired    = "L'adresse est requise."
	MsgPostalCodeRequired = "Le code postal est requis."
	MsgCityRequired       = "La ville est requise."
	MsgOrganizerRequired  = "Le nom de l'organisateur est requis."
	MsgLatitudeInvalid    = "La latitude doit être comprise entre -90 et 90."
	MsgLongitudeInvalid   = "La longitude doit être comprise entre -180 et 180."
)

// required string fields, in the order errors are reported.
var requiredFields = []struct {
	key string
	msg string
}{
	{"title", MsgTitleRequired},
	{"content", MsgContentRequired},
	{"imageUrl", MsgImageRequired},
	{"categoryId", MsgCategoryRequired},
	{"eventStartAt", MsgStartDateRequired},
	{"eventEndAt", MsgEndDateRequired},
	{"venueName", MsgVenueRequired},
	{"address", MsgAddressRequired},
	{"postalCode", MsgPostalCodeRequired},
	{"city", MsgCityRequired},
	{"organizerName", MsgOrganizerRequired},
}

var optionalFields = []string{
	"organizerEmail", "contactEmail", "contactPhone", "ticketUrl", "websiteUrl",
}

// Event validates an untyped create/update payload. On success it
// returns the cleaned draft with HTML-sanitized content; on failure it
// returns every accumulated message, not just the first.
func Event(body map[string]any) (*model.EventInput, []string) {
	var errs []string

	values := make(map[string]string, len(requiredFields))
	for _, f := range requiredFields {
		s, ok := stringField(body, f.key)
		if !ok || strings.TrimSpace(s) == "" {
			errs = append(errs, f.msg)
			continue
		}
		values[f.key] = strings.TrimSpace(s)
	}

	optional := make(map[string]string, len(optionalFields))
	for _, key := range optionalFields {
		raw, present := body[key]
		if !present || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("Le champ %s doit être une chaîne de caractères.", key))
			continue
		}
		optional[key] = strings.TrimSpace(s)
	}

	var startAt, endAt time.Time
	if raw, ok := values["eventStartAt"]; ok {
		t, err := parseDate(raw)
		if err != nil {
			errs = append(errs, MsgStartDateInvalid)
		} else {
			startAt = t
		}
	}
	if raw, ok := values["eventEndAt"]; ok {
		t, err := parseDate(raw)
		if err != nil {
			errs = append(errs, MsgEndDateInvalid)
		} else {
			endAt = t
		}
	}
	if !startAt.IsZero() && !endAt.IsZero() && endAt.Before(startAt) {
		errs = append(errs, MsgEndBeforeStart)
	}

	latitude, err := coordinate(body, "latitude", 90, MsgLatitudeInvalid)
	if err != "" {
		errs = append(errs, err)
	}
	longitude, err := coordinate(body, "longitude", 180, MsgLongitudeInvalid)
	if err != "" {
		errs = append(errs, err)
	}

	allDay := false
	if raw, present := body["allDay"]; present && raw != nil {
		if b, ok := raw.(bool); ok {
			allDay = b
		} else {
			errs = append(errs, "Le champ allDay doit être un booléen.")
		}
	}

	content := sanitize.Content(values["content"])
	if values["content"] != "" && sanitize.IsEmpty(content) {
		errs = append(errs, MsgContentEmpty)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &model.EventInput{
		Title:          values["title"],
		Content:        content,
		ImageURL:       values["imageUrl"],
		CategoryID:     values["categoryId"],
		EventStartAt:   startAt,
		EventEndAt:     endAt,
		AllDay:         allDay,
		VenueName:      values["venueName"],
		Address:        values["address"],
		PostalCode:     values["postalCode"],
		City:           values["city"],
		Latitude:       latitude,
		Longitude:      longitude,
		OrganizerName:  values["organizerName"],
		OrganizerEmail: optional["organizerEmail"],
		ContactEmail:   optional["contactEmail"],
		ContactPhone:   optional["contactPhone"],
		TicketURL:      optional["ticketUrl"],
		WebsiteURL:     optional["websiteUrl"],
	}, nil
}

// stringField extracts body[key] as a string. A missing key and a
// non-string value are both reported as absent; the caller owns the message.
func stringField(body map[string]any, key string) (string, bool) {
	raw, present := body[key]
	if !present || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// coordinate extracts an optional latitude/longitude value and checks its
// range: [-bound, bound]. JSON numbers decode as float64.
func coordinate(body map[string]any, key string, bound float64, msg string) (*float64, string) {
	raw, present := body[key]
	if !present || raw == nil {
		return nil, ""
	}
	f, ok := raw.(float64)
	if !ok || f < -bound || f > bound {
		return nil, msg
	}
	return &f, ""
}
