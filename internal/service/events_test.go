// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plberthet/agenda-go/internal/geocode"
	"github.com/plberthet/agenda-go/internal/mail"
	"github.com/plberthet/agenda-go/internal/model"
	"github.com/plberthet/agenda-go/internal/store"
)

// stubGeocoder returns fixed coordinates, a fixed error, or nothing.
type stubGeocoder struct {
	coords    *geocode.Coordinates
	err       error
	lastQuery string
	calls     int
}

func (g *stubGeocoder) Search(_ context.Context, query string) (*geocode.Coordinates, error) {
	g.calls++
	g.lastQuery = query
	return g.coords, g.err
}

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	submitted   []string
	resubmitted []bool
	moderators  [][]model.AdminUser
	published   []string
	rejected    []string
	deleted     []string
	creators    []*model.AdminUser
}

func (n *recordingNotifier) EventSubmitted(_ context.Context, ev *model.Event, resubmitted bool, moderators []model.AdminUser) {
	n.submitted = append(n.submitted, ev.ID)
	n.resubmitted = append(n.resubmitted, resubmitted)
	n.moderators = append(n.moderators, moderators)
}

func (n *recordingNotifier) EventPublished(_ context.Context, ev *model.Event, creator *model.AdminUser) {
	n.published = append(n.published, ev.ID)
	n.creators = append(n.creators, creator)
}

func (n *recordingNotifier) EventRejected(_ context.Context, ev *model.Event, creator *model.AdminUser) {
	n.rejected = append(n.rejected, ev.ID)
	n.creators = append(n.creators, creator)
}

func (n *recordingNotifier) EventDeleted(_ context.Context, ev *model.Event, creator *model.AdminUser) {
	n.deleted = append(n.deleted, ev.ID)
	n.creators = append(n.creators, creator)
}

type eventsFixture struct {
	svc      *Events
	store    *store.Store
	geocoder *stubGeocoder
	notifier *recordingNotifier
	dir      string
}

func newEventsFixture(t *testing.T) *eventsFixture {
	t.Helper()
	st := store.NewMemory()
	if _, err := st.Categories.Create(context.Background(), model.Category{ID: "concert", Name: "Concert"}); err != nil {
		t.Fatalf("seeding category: %v", err)
	}
	g := &stubGeocoder{}
	n := &recordingNotifier{}
	dir := t.TempDir()
	return &eventsFixture{
		svc:      NewEvents(st, g, n, nil, dir, nil),
		store:    st,
		geocoder: g,
		notifier: n,
		dir:      dir,
	}
}

func eventBody() map[string]any {
	return map[string]any{
		"title":         "Concert du printemps",
		"content":       "<p>Un concert en plein air.</p>",
		"imageUrl":      "https://example.com/affiche.jpg",
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

func TestEventsCreate(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)
	f.geocoder.coords = &geocode.Coordinates{Latitude: 43.6, Longitude: 3.87}

	creator := "u1"
	ev, err := f.svc.Create(ctx, eventBody(), &creator)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ev.Status != model.StatusDraft {
		t.Errorf("Status = %q, want DRAFT", ev.Status)
	}
	if ev.ID == "" {
		t.Error("ID should be assigned")
	}
	if ev.Latitude == nil || *ev.Latitude != 43.6 {
		t.Errorf("Latitude = %v, want geocoded 43.6", ev.Latitude)
	}
	if !ev.PublicationEndAt.Equal(ev.EventEndAt) {
		t.Errorf("PublicationEndAt = %v, want event end %v", ev.PublicationEndAt, ev.EventEndAt)
	}
	if ev.CreatedByUserID == nil || *ev.CreatedByUserID != "u1" {
		t.Errorf("CreatedByUserID = %v", ev.CreatedByUserID)
	}
	if f.geocoder.lastQuery != "1 rue de la Mairie, Parc municipal, 34000, Montpellier" {
		t.Errorf("geocode query = %q", f.geocoder.lastQuery)
	}
}

func TestEventsCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	body := eventBody()
	delete(body, "title")
	_, err := f.svc.Create(ctx, body, nil)
	verr, ok := AsValidation(err)
	if !ok {
		t.Fatalf("error = %v, want validation error", err)
	}
	if len(verr.Messages) != 1 || verr.Messages[0] != "Le titre est requis." {
		t.Errorf("Messages = %v", verr.Messages)
	}
	if f.geocoder.calls != 0 {
		t.Error("geocoder should not be called on invalid payload")
	}
}

func TestEventsCreateUnknownCategory(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	body := eventBody()
	body["categoryId"] = "inconnu"
	_, err := f.svc.Create(ctx, body, nil)
	verr, ok := AsValidation(err)
	if !ok || !containsMsg(verr.Messages, MsgCategoryNotFound) {
		t.Errorf("error = %v, want %q", err, MsgCategoryNotFound)
	}
}

func TestEventsCreateGeocoding(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable geocoder aborts", func(t *testing.T) {
		f := newEventsFixture(t)
		f.geocoder.err = geocode.ErrUnavailable
		_, err := f.svc.Create(ctx, eventBody(), nil)
		if !errors.Is(err, ErrGeocoderUnavailable) {
			t.Errorf("error = %v, want ErrGeocoderUnavailable", err)
		}
	})

	t.Run("unresolved address keeps nil coordinates", func(t *testing.T) {
		f := newEventsFixture(t)
		ev, err := f.svc.Create(ctx, eventBody(), nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if ev.Latitude != nil || ev.Longitude != nil {
			t.Errorf("coordinates = %v, %v, want nil", ev.Latitude, ev.Longitude)
		}
	})

	t.Run("payload coordinates skip geocoding", func(t *testing.T) {
		f := newEventsFixture(t)
		body := eventBody()
		body["latitude"] = 48.85
		body["longitude"] = 2.35
		ev, err := f.svc.Create(ctx, body, nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if f.geocoder.calls != 0 {
			t.Error("geocoder should not be called when coordinates are provided")
		}
		if ev.Latitude == nil || *ev.Latitude != 48.85 {
			t.Errorf("Latitude = %v", ev.Latitude)
		}
	})
}

func TestEventsLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	// A moderator and an admin must be notified on submission.
	_, _ = f.store.Users.Create(ctx, model.AdminUser{ID: "m1", Name: "Claire", Email: "claire@mairie.fr", Role: model.RoleModerator})
	_, _ = f.store.Users.Create(ctx, model.AdminUser{ID: "a1", Name: "Paul", Email: "paul@mairie.fr", Role: model.RoleAdmin})
	_, _ = f.store.Users.Create(ctx, model.AdminUser{ID: "u1", Name: "Éditrice", Email: "edit@mairie.fr", Role: model.RoleEditor})

	creator := "u1"
	ev, err := f.svc.Create(ctx, eventBody(), &creator)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// DRAFT -> PENDING
	pending, err := f.svc.Submit(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if pending.Status != model.StatusPending {
		t.Errorf("Status = %q, want PENDING", pending.Status)
	}
	if len(f.notifier.submitted) != 1 || f.notifier.resubmitted[0] {
		t.Errorf("submitted = %v, resubmitted = %v", f.notifier.submitted, f.notifier.resubmitted)
	}
	if len(f.notifier.moderators[0]) != 2 {
		t.Errorf("moderators notified = %d, want 2", len(f.notifier.moderators[0]))
	}

	// PENDING cannot be submitted again.
	if _, err := f.svc.Submit(ctx, ev.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit(PENDING) error = %v, want ErrInvalidTransition", err)
	}

	// PENDING -> REJECTED, reason required.
	if _, err := f.svc.Reject(ctx, ev.ID, ""); err == nil {
		t.Error("Reject() without reason should fail")
	}
	rejected, err := f.svc.Reject(ctx, ev.ID, "Description incomplète.")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if rejected.Status != model.StatusRejected || rejected.RejectionReason == nil {
		t.Errorf("rejected = %+v", rejected)
	}
	if len(f.notifier.rejected) != 1 || f.notifier.creators[0] == nil || f.notifier.creators[0].ID != "u1" {
		t.Errorf("rejection notification = %v, creator = %v", f.notifier.rejected, f.notifier.creators)
	}

	// REJECTED -> PENDING counts as a resubmission.
	resubmitted, err := f.svc.Submit(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Submit() after rejection error = %v", err)
	}
	if resubmitted.Status != model.StatusPending {
		t.Errorf("Status = %q, want PENDING", resubmitted.Status)
	}
	if resubmitted.RejectionReason != nil {
		t.Error("resubmission should clear the rejection reason")
	}
	if !f.notifier.resubmitted[1] {
		t.Error("second submission should be flagged as resubmitted")
	}

	// PENDING -> PUBLISHED stamps publishedAt.
	published, err := f.svc.Publish(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if published.Status != model.StatusPublished || published.PublishedAt == nil {
		t.Errorf("published = %+v", published)
	}
	if len(f.notifier.published) != 1 {
		t.Errorf("publication notifications = %v", f.notifier.published)
	}

	// The public listing now carries it.
	listed, err := f.svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != ev.ID {
		t.Errorf("ListPublished() = %v", listed)
	}
}

func TestEventsListByStatus(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	first, _ := f.svc.Create(ctx, eventBody(), nil)
	second, _ := f.svc.Create(ctx, eventBody(), nil)
	if _, err := f.svc.Submit(ctx, second.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	all, err := f.svc.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List() = %d events, %v", len(all), err)
	}

	drafts, err := f.svc.List(ctx, model.StatusDraft)
	if err != nil || len(drafts) != 1 || drafts[0].ID != first.ID {
		t.Errorf("List(DRAFT) = %v, %v", drafts, err)
	}

	// Filtering must not touch the unfiltered listing it was built from.
	seen := map[string]bool{all[0].ID: true, all[1].ID: true}
	if !seen[first.ID] || !seen[second.ID] {
		t.Errorf("List() mutated by filter: %v, %v", all[0].ID, all[1].ID)
	}

	published, err := f.svc.ListPublished(ctx)
	if err != nil || len(published) != 0 {
		t.Errorf("ListPublished() = %v, %v, want empty", published, err)
	}
}

func TestEventsUpdateRemovesReplacedImage(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	old := filepath.Join(f.dir, "old.jpg")
	if err := os.WriteFile(old, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	body := eventBody()
	body["imageUrl"] = "/uploads/old.jpg"
	ev, err := f.svc.Create(ctx, body, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	body["imageUrl"] = "/uploads/new.jpg"
	if _, err := f.svc.Update(ctx, ev.ID, body); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("old image should be removed, stat err = %v", err)
	}
}

func TestEventsDelete(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	img := filepath.Join(f.dir, "affiche.jpg")
	if err := os.WriteFile(img, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	body := eventBody()
	body["imageUrl"] = "/uploads/affiche.jpg"
	ev, err := f.svc.Create(ctx, body, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.svc.Delete(ctx, ev.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(img); !os.IsNotExist(err) {
		t.Errorf("image should be removed, stat err = %v", err)
	}
	if len(f.notifier.deleted) != 1 {
		t.Errorf("deletion notifications = %v", f.notifier.deleted)
	}
	if err := f.svc.Delete(ctx, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestEventsGetNotFound(t *testing.T) {
	f := newEventsFixture(t)
	if _, err := f.svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEventsPublicationEndFollowsEventEnd(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture(t)

	ev, err := f.svc.Create(ctx, eventBody(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	body := eventBody()
	body["eventEndAt"] = "2026-06-22T01:00:00Z"
	updated, err := f.svc.Update(ctx, ev.ID, body)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	want := time.Date(2026, 6, 22, 1, 0, 0, 0, time.UTC)
	if !updated.PublicationEndAt.Equal(want) {
		t.Errorf("PublicationEndAt = %v, want %v", updated.PublicationEndAt, want)
	}
}

// slowMailSender stalls every delivery to verify dispatch is
// detached from the calling operation.
type slowMailSender struct{ delay time.Duration }

func (s slowMailSender) Send(_ context.Context, _, _, _ string) error {
	time.Sleep(s.delay)
	return nil
}

func TestEventsSubmitDoesNotWaitForMail(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if _, err := st.Categories.Create(ctx, model.Category{ID: "concert", Name: "Concert"}); err != nil {
		t.Fatalf("seeding category: %v", err)
	}
	if _, err := st.Users.Create(ctx, model.AdminUser{
		ID: "m1", Name: "Claire", Email: "claire@mairie.fr", Role: model.RoleModerator,
	}); err != nil {
		t.Fatalf("seeding moderator: %v", err)
	}
	notifier := mail.NewNotifier(slowMailSender{delay: 200 * time.Millisecond}, nil)
	svc := NewEvents(st, &stubGeocoder{}, notifier, nil, t.TempDir(), nil)

	creator := "u1"
	ev, err := svc.Create(ctx, eventBody(), &creator)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	start := time.Now()
	if _, err := svc.Submit(ctx, ev.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Submit() blocked for %v waiting on mail delivery", elapsed)
	}
	notifier.Wait()
}

func containsMsg(msgs []string, want string) bool {
	for _, m := range msgs {
		if m == want {
			return true
		}
	}
	return false
}
