// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package validate

import (
	"testing"
	"time"
)

func validBody() map[string]any {
	return map[string]any{
		"title":         "Concert du printemps",
		"content":       "<p>Un concert en plein air.</p>",
		"imageUrl":      "/uploads/affiche.jpg",
		"categoryId":    "concert",
		"eventStartAt":  "2026-06-21T18:00:00Z",
		"eventEndAt":    "2026-06-21T23:00:00Z",
		"venueName":     "Parc municipal",
		"address":       "1 rue de la Mairie",
		"postalCode":    "34000",
		"city":          "Montpellier",
		"organizerName": "Service culture",
	}
}

func contains(errs []string, msg string) bool {
	for _, e := range errs {
		if e == msg {
			return true
		}
	}
	return false
}

func TestEventValid(t *testing.T) {
	input, errs := Event(validBody())
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if input.Title != "Concert du printemps" {
		t.Errorf("Title = %q", input.Title)
	}
	if input.Content != "<p>Un concert en plein air.</p>" {
		t.Errorf("Content = %q", input.Content)
	}
	want := time.Date(2026, 6, 21, 18, 0, 0, 0, time.UTC)
	if !input.EventStartAt.Equal(want) {
		t.Errorf("EventStartAt = %v, want %v", input.EventStartAt, want)
	}
	if input.AllDay {
		t.Error("AllDay should default to false")
	}
	if input.Latitude != nil || input.Longitude != nil {
		t.Error("coordinates should stay nil when absent")
	}
}

func TestEventAccumulatesAllErrors(t *testing.T) {
	_, errs := Event(map[string]any{})
	if len(errs) != len(requiredFields) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(requiredFields), errs)
	}
	// Errors are reported in field order, title first.
	if errs[0] != MsgTitleRequired {
		t.Errorf("first error = %q, want %q", errs[0], MsgTitleRequired)
	}
	if !contains(errs, MsgOrganizerRequired) {
		t.Errorf("missing organizer error in %v", errs)
	}
}

func TestEventFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(body map[string]any)
		wantMsg string
	}{
		{
			name:    "blank title",
			mutate:  func(b map[string]any) { b["title"] = "   " },
			wantMsg: MsgTitleRequired,
		},
		{
			name:    "non-string title",
			mutate:  func(b map[string]any) { b["title"] = 42.0 },
			wantMsg: MsgTitleRequired,
		},
		{
			name:    "invalid start date",
			mutate:  func(b map[string]any) { b["eventStartAt"] = "demain" },
			wantMsg: MsgStartDateInvalid,
		},
		{
			name:    "invalid end date",
			mutate:  func(b map[string]any) { b["eventEndAt"] = "21/06/2026" },
			wantMsg: MsgEndDateInvalid,
		},
		{
			name: "end before start",
			mutate: func(b map[string]any) {
				b["eventStartAt"] = "2026-06-21T18:00:00Z"
				b["eventEndAt"] = "2026-06-21T12:00:00Z"
			},
			wantMsg: MsgEndBeforeStart,
		},
		{
			name:    "latitude out of range",
			mutate:  func(b map[string]any) { b["latitude"] = 91.0 },
			wantMsg: MsgLatitudeInvalid,
		},
		{
			name:    "longitude wrong type",
			mutate:  func(b map[string]any) { b["longitude"] = "3.87" },
			wantMsg: MsgLongitudeInvalid,
		},
		{
			name:    "markup-only content",
			mutate:  func(b map[string]any) { b["content"] = "<script>alert(1)</script>" },
			wantMsg: MsgContentEmpty,
		},
		{
			name:    "non-string optional field",
			mutate:  func(b map[string]any) { b["ticketUrl"] = 12.0 },
			wantMsg: "Le champ ticketUrl doit être une chaîne de caractères.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.mutate(body)
			input, errs := Event(body)
			if input != nil {
				t.Fatal("input should be nil on validation failure")
			}
			if !contains(errs, tt.wantMsg) {
				t.Errorf("errors %v do not contain %q", errs, tt.wantMsg)
			}
		})
	}
}

func TestEventBareDates(t *testing.T) {
	body := validBody()
	body["eventStartAt"] = "2026-06-21"
	body["eventEndAt"] = "2026-06-22"
	input, errs := Event(body)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if input.EventStartAt.Format("2006-01-02") != "2026-06-21" {
		t.Errorf("EventStartAt = %v", input.EventStartAt)
	}
}

func TestEventSanitizesContent(t *testing.T) {
	body := validBody()
	body["content"] = `<p>ok</p><script>alert(1)</script>`
	input, errs := Event(body)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if input.Content != "<p>ok</p>" {
		t.Errorf("Content = %q, want script stripped", input.Content)
	}
}

func TestEventCoordinatesAndOptionals(t *testing.T) {
	body := validBody()
	body["latitude"] = 43.6
	body["longitude"] = 3.87
	body["allDay"] = true
	body["ticketUrl"] = "https://exemple.fr/billets"
	input, errs := Event(body)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if input.Latitude == nil || *input.Latitude != 43.6 {
		t.Errorf("Latitude = %v", input.Latitude)
	}
	if input.Longitude == nil || *input.Longitude != 3.87 {
		t.Errorf("Longitude = %v", input.Longitude)
	}
	if !input.AllDay {
		t.Error("AllDay should be true")
	}
	if input.TicketURL != "https://exemple.fr/billets" {
		t.Errorf("TicketURL = %q", input.TicketURL)
	}
}
