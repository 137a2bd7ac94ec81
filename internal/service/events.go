// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/plberthet/agenda-go/internal/cache"
	"github.com/plberthet/agenda-go/internal/geocode"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
	"github.com/plberthet/agenda-go/internal/util"
	"github.com/plberthet/agenda-go/internal/validate"
)

// publishedCacheKey holds the serialized public events listing.
const publishedCacheKey = "events:published"

// Geocoder resolves a free-text query to coordinates. Satisfied by
// *geocode.Client; tests substitute a stub.
type Geocoder interface {
	Search(ctx context.Context, query string) (*geocode.Coordinates, error)
}

// Notifier receives workflow notifications. Satisfied by
// *mail.Notifier; tests substitute a recorder.
type Notifier interface {
	EventSubmitted(ctx context.Context, ev *model.Event, resubmitted bool, moderators []model.AdminUser)
	EventPublished(ctx context.Context, ev *model.Event, creator *model.AdminUser)
	EventRejected(ctx context.Context, ev *model.Event, creator *model.AdminUser)
	EventDeleted(ctx context.Context, ev *model.Event, creator *model.AdminUser)
}

// Events implements the event lifecycle: create, update, the
// DRAFT → PENDING → PUBLISHED/REJECTED workflow, and deletion with
// local image cleanup.
type Events struct {
	store     *store.Store
	geocoder  Geocoder
	notifier  Notifier
	cache     cache.Cache
	uploadDir string
	logger    *slog.Logger
}

// NewEvents wires the event service.
func NewEvents(st *store.Store, geocoder Geocoder, notifier Notifier, c cache.Cache, uploadDir string, logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{
		store:     st,
		geocoder:  geocoder,
		notifier:  notifier,
		cache:     c,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// List returns events for back-office callers, optionally filtered by
// status.
func (s *Events) List(ctx context.Context, status string) ([]model.Event, error) {
	events, err := s.store.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return events, nil
	}
	filtered := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.Status == status {
			filtered = append(filtered, ev)
		}
	}
	return filtered, nil
}

// ListPublished returns the public agenda: published events only,
// served from cache when possible.
func (s *Events) ListPublished(ctx context.Context) ([]model.Event, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, publishedCacheKey); err == nil {
			var events []model.Event
			if err := json.Unmarshal(raw, &events); err == nil {
				return events, nil
			}
			// A corrupt entry is dropped and rebuilt.
			_ = s.cache.Delete(ctx, publishedCacheKey)
		}
	}

	all, err := s.store.Events.List(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, 0, len(all))
	for _, ev := range all {
		if ev.IsPublished() {
			events = append(events, ev)
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(events); err == nil {
			if err := s.cache.Set(ctx, publishedCacheKey, raw, 0); err != nil {
				s.logger.Warn("caching published events failed", "error", err)
			}
		}
	}
	return events, nil
}

// Get returns one event or ErrNotFound.
func (s *Events) Get(ctx context.Context, id string) (*model.Event, error) {
	ev, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrNotFound
	}
	return ev, nil
}

// Create validates and geocodes the payload, then persists a new DRAFT
// event on behalf of createdBy (nil for legacy anonymous callers).
func (s *Events) Create(ctx context.Context, body map[string]any, createdByUserID *string) (*model.Event, error) {
	input, errs := validate.Event(body)
	if len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.geocodeInput(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	ev := model.Event{
		ID:               uuid.NewString(),
		Status:           model.StatusDraft,
		PublicationEndAt: input.EventEndAt,
		CreatedByUserID:  createdByUserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	applyInput(&ev, input)

	created, err := s.store.Events.Create(ctx, ev)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update re-validates and re-geocodes the payload and replaces the
// event's fields. When the image URL changed, the previously stored
// local file is removed.
func (s *Events) Update(ctx context.Context, id string, body map[string]any) (*model.Event, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	input, errs := validate.Event(body)
	if len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.geocodeInput(ctx, input); err != nil {
		return nil, err
	}

	ev := *current
	applyInput(&ev, input)
	ev.PublicationEndAt = input.EventEndAt
	ev.UpdatedAt = time.Now()

	updated, err := s.store.Events.Update(ctx, ev)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if current.ImageURL != updated.ImageURL {
		s.removeLocalImage(current.ImageURL)
	}
	s.invalidate(ctx)
	return updated, nil
}

// Submit moves a draft or rejected event into the moderation queue and
// notifies the moderators.
func (s *Events) Submit(ctx context.Context, id string) (*model.Event, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsSubmittable() {
		return nil, ErrInvalidTransition
	}
	resubmitted := current.Status == model.StatusRejected

	updated, err := s.store.Events.UpdateStatus(ctx, id, store.StatusChange{
		Status: model.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	moderators, err := s.store.Users.ListByRoles(ctx, model.RoleModerator, model.RoleAdmin)
	if err != nil {
		s.logger.Warn("loading moderators for notification failed", "error", err)
	} else {
		s.notifier.EventSubmitted(ctx, updated, resubmitted, moderators)
	}
	s.invalidate(ctx)
	return updated, nil
}

// Publish makes an event public, stamps publishedAt and notifies the
// creator.
func (s *Events) Publish(ctx context.Context, id string) (*model.Event, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.store.Events.UpdateStatus(ctx, id, store.StatusChange{
		Status:      model.StatusPublished,
		PublishedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.notifier.EventPublished(ctx, updated, s.creator(ctx, updated))
	s.invalidate(ctx)
	return updated, nil
}

// Reject refuses an event with a mandatory reason, clears publishedAt
// and notifies the creator.
func (s *Events) Reject(ctx context.Context, id, reason string) (*model.Event, error) {
	if reason == "" {
		return nil, NewValidationError(MsgRejectionReasonRequired)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.store.Events.UpdateStatus(ctx, id, store.StatusChange{
		Status:          model.StatusRejected,
		RejectionReason: &reason,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.notifier.EventRejected(ctx, updated, s.creator(ctx, updated))
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes the event, its locally stored image, and notifies the
// creator.
func (s *Events) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	removed, err := s.store.Events.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	s.removeLocalImage(current.ImageURL)
	s.notifier.EventDeleted(ctx, current, s.creator(ctx, current))
	s.invalidate(ctx)
	return nil
}

// applyInput copies the validated payload onto the event record.
func applyInput(ev *model.Event, in *model.EventInput) {
	ev.Title = in.Title
	ev.Content = in.Content
	ev.ImageURL = in.ImageURL
	ev.CategoryID = in.CategoryID
	ev.EventStartAt = in.EventStartAt
	ev.EventEndAt = in.EventEndAt
	ev.AllDay = in.AllDay
	ev.VenueName = in.VenueName
	ev.Address = in.Address
	ev.PostalCode = in.PostalCode
	ev.City = in.City
	ev.Latitude = in.Latitude
	ev.Longitude = in.Longitude
	ev.OrganizerName = in.OrganizerName
	ev.OrganizerEmail = in.OrganizerEmail
	ev.ContactEmail = in.ContactEmail
	ev.ContactPhone = in.ContactPhone
	ev.TicketURL = in.TicketURL
	ev.WebsiteURL = in.WebsiteURL
}

// checkCategory turns an unknown category id into a validation error.
func (s *Events) checkCategory(ctx context.Context, categoryID string) error {
	cat, err := s.store.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return NewValidationError(MsgCategoryNotFound)
	}
	return nil
}

// geocodeInput resolves coordinates from the postal address when the
// payload did not carry any. An unreachable geocoder aborts the
// operation; an address without a match leaves the coordinates empty.
func (s *Events) geocodeInput(ctx context.Context, in *model.EventInput) error {
	if in.Latitude != nil && in.Longitude != nil {
		return nil
	}
	query := geocode.BuildQuery(in.Address, in.VenueName, in.PostalCode, in.City)
	coords, err := s.geocoder.Search(ctx, query)
	if err != nil {
		if errors.Is(err, geocode.ErrUnavailable) {
			return ErrGeocoderUnavailable
		}
		return err
	}
	if coords != nil {
		in.Latitude = &coords.Latitude
		in.Longitude = &coords.Longitude
	}
	return nil
}

// creator loads the event creator for notification purposes; a missing
// or anonymous creator yields nil.
func (s *Events) creator(ctx context.Context, ev *model.Event) *model.AdminUser {
	if ev.CreatedByUserID == nil {
		return nil
	}
	user, err := s.store.Users.GetByID(ctx, *ev.CreatedByUserID)
	if err != nil {
		s.logger.Warn("loading event creator failed", "event_id", ev.ID, "error", err)
		return nil
	}
	return user
}

// invalidate drops the cached public listing after any mutation.
func (s *Events) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publishedCacheKey); err != nil {
		s.logger.Warn("invalidating events cache failed", "error", err)
	}
}

// removeLocalImage deletes a locally stored upload. External URLs and
// missing files are ignored; other failures are logged only.
func (s *Events) removeLocalImage(imageURL string) {
	path := util.LocalUploadPath(s.uploadDir, imageURL)
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing event image failed", "path", path, "error", err)
	}
}
