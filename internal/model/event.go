// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the stores, services
// and HTTP handlers.
package model

import "time"

// Event statuses
const (
	StatusDraft     = "DRAFT"
	StatusPending   = "PENDING"
	StatusPublished = "PUBLISHED"
	StatusRejected  = "REJECTED"
)

// Event represents a cultural event published on the municipal agenda.
type Event struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	ImageURL         string     `json:"imageUrl"`
	CategoryID       string     `json:"categoryId"`
	EventStartAt     time.Time  `json:"eventStartAt"`
	EventEndAt       time.Time  `json:"eventEndAt"`
	AllDay           bool       `json:"allDay"`
	VenueName        string     `json:"venueName"`
	Address          string     `json:"address"`
	PostalCode       string     `json:"postalCode"`
	City             string     `json:"city"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	OrganizerName    string     `json:"organizerName"`
	OrganizerEmail   string     `json:"organizerEmail,omitempty"`
	ContactEmail     string     `json:"contactEmail,omitempty"`
	ContactPhone     string     `json:"contactPhone,omitempty"`
	TicketURL        string     `json:"ticketUrl,omitempty"`
	WebsiteURL       string     `json:"websiteUrl,omitempty"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"publishedAt"`
	PublicationEndAt time.Time  `json:"publicationEndAt"`
	RejectionReason  *string    `json:"rejectionReason"`
	CreatedByUserID  *string    `json:"createdByUserId"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsPublished returns true if the event is published.
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsSubmittable returns true if the event may be submitted for moderation.
// Only drafts and rejected events can (re-)enter the moderation queue.
func (e *Event) IsSubmittable() bool {
	return e.Status == StatusDraft || e.Status == StatusRejected
}

// EventInput is a validated, sanitized event payload ready for persistence.
type EventInput struct {
	Title          string
	Content        string
	ImageURL       string
	CategoryID     string
	EventStartAt   time.Time
	EventEndAt     time.Time
	AllDay         bool
	VenueName      string
	Address        string
	PostalCode     string
	City           string
	Latitude       *float64
	Longitude      *float64
	OrganizerName  string
	OrganizerEmail string
	ContactEmail   string
	ContactPhone   string
	TicketURL      string
	WebsiteURL     string
}
