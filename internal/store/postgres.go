// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/plberthet/agenda-go/internal/model"
)

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const eventColumns = `id, title, content, image_url, category_id,
	event_start_at, event_end_at, all_day, venue_name, address, postal_code, city,
	latitude, longitude, organizer_name, organizer_email, contact_email, contact_phone,
	ticket_url, website_url, status, published_at, publication_end_at, rejection_reason,
	created_by_user_id, created_at, updated_at`

type pgEvents struct {
	db *sql.DB
}

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var ev model.Event
	var lat, lon sql.NullFloat64
	var publishedAt sql.NullTime
	var rejectionReason, createdBy sql.NullString

	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Content, &ev.ImageURL, &ev.CategoryID,
		&ev.EventStartAt, &ev.EventEndAt, &ev.AllDay, &ev.VenueName, &ev.Address, &ev.PostalCode, &ev.City,
		&lat, &lon, &ev.OrganizerName, &ev.OrganizerEmail, &ev.ContactEmail, &ev.ContactPhone,
		&ev.TicketURL, &ev.WebsiteURL, &ev.Status, &publishedAt, &ev.PublicationEndAt, &rejectionReason,
		&createdBy, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		ev.Latitude = &lat.Float64
	}
	if lon.Valid {
		ev.Longitude = &lon.Float64
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		ev.PublishedAt = &t
	}
	if rejectionReason.Valid {
		ev.RejectionReason = &rejectionReason.String
	}
	if createdBy.Valid {
		ev.CreatedByUserID = &createdBy.String
	}
	return &ev, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *pgEvents) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY event_start_at`)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

func (s *pgEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	ev, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return ev, nil
}

func (s *pgEvents) Create(ctx context.Context, ev model.Event) (*model.Event, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, content, image_url, category_id,
			event_start_at, event_end_at, all_day, venue_name, address, postal_code, city,
			latitude, longitude, organizer_name, organizer_email, contact_email, contact_phone,
			ticket_url, website_url, status, published_at, publication_end_at, rejection_reason,
			created_by_user_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		ev.ID, ev.Title, ev.Content, ev.ImageURL, ev.CategoryID,
		ev.EventStartAt, ev.EventEndAt, ev.AllDay, ev.VenueName, ev.Address, ev.PostalCode, ev.City,
		nullFloat(ev.Latitude), nullFloat(ev.Longitude), ev.OrganizerName, ev.OrganizerEmail, ev.ContactEmail, ev.ContactPhone,
		ev.TicketURL, ev.WebsiteURL, ev.Status, nullTimePtr(ev.PublishedAt), ev.PublicationEndAt, nullString(ev.RejectionReason),
		nullString(ev.CreatedByUserID), ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return &ev, nil
}

func (s *pgEvents) Update(ctx context.Context, ev model.Event) (*model.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET
			title = $2, content = $3, image_url = $4, category_id = $5,
			event_start_at = $6, event_end_at = $7, all_day = $8,
			venue_name = $9, address = $10, postal_code = $11, city = $12,
			latitude = $13, longitude = $14,
			organizer_name = $15, organizer_email = $16, contact_email = $17, contact_phone = $18,
			ticket_url = $19, website_url = $20, publication_end_at = $21, updated_at = $22
		WHERE id = $1`,
		ev.ID, ev.Title, ev.Content, ev.ImageURL, ev.CategoryID,
		ev.EventStartAt, ev.EventEndAt, ev.AllDay,
		ev.VenueName, ev.Address, ev.PostalCode, ev.City,
		nullFloat(ev.Latitude), nullFloat(ev.Longitude),
		ev.OrganizerName, ev.OrganizerEmail, ev.ContactEmail, ev.ContactPhone,
		ev.TicketURL, ev.WebsiteURL, ev.PublicationEndAt, ev.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, ev.ID)
}

func (s *pgEvents) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting event: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *pgEvents) UpdateStatus(ctx context.Context, id string, change StatusChange) (*model.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET status = $2, published_at = $3, rejection_reason = $4, updated_at = now()
		WHERE id = $1`,
		id, change.Status, nullTimePtr(change.PublishedAt), nullString(change.RejectionReason),
	)
	if err != nil {
		return nil, fmt.Errorf("updating event status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

func (s *pgEvents) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting events by category: %w", err)
	}
	return n, nil
}

type pgCategories struct {
	db *sql.DB
}

func (s *pgCategories) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *pgCategories) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return &c, nil
}

func (s *pgCategories) Create(ctx context.Context, cat model.Category) (*model.Category, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1,$2,$3,$4)`,
		cat.ID, cat.Name, cat.CreatedAt, cat.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &cat, nil
}

func (s *pgCategories) Update(ctx context.Context, cat model.Category) (*model.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`,
		cat.ID, cat.Name, cat.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &cat, nil
}

func (s *pgCategories) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type pgUsers struct {
	db *sql.DB
}

const userColumns = `id, name, email, role, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.AdminUser, error) {
	var u model.AdminUser
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgUsers) List(ctx context.Context) ([]model.AdminUser, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM admin_users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []model.AdminUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *pgUsers) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM admin_users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (s *pgUsers) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM admin_users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

func (s *pgUsers) Create(ctx context.Context, u model.AdminUser) (*model.AdminUser, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_users (id, name, email, role, password_hash, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

func (s *pgUsers) Update(ctx context.Context, u model.AdminUser) (*model.AdminUser, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE admin_users SET name = $2, email = $3, role = $4, password_hash = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &u, nil
}

func (s *pgUsers) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *pgUsers) ListByRoles(ctx context.Context, roles ...string) ([]model.AdminUser, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM admin_users WHERE role = ANY($1) ORDER BY email`,
		pq.Array(roles))
	if err != nil {
		return nil, fmt.Errorf("listing users by role: %w", err)
	}
	defer rows.Close()

	var out []model.AdminUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

type pgSettings struct {
	db *sql.DB
}

func (s *pgSettings) Get(ctx context.Context) (*model.Settings, error) {
	var out model.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT contact_email, contact_phone, homepage_intro, updated_at FROM settings WHERE id = 1`).
		Scan(&out.ContactEmail, &out.ContactPhone, &out.HomepageIntro, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}
	return &out, nil
}

func (s *pgSettings) Update(ctx context.Context, in model.Settings) (*model.Settings, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE settings SET contact_email = $1, contact_phone = $2, homepage_intro = $3, updated_at = now()
		WHERE id = 1
		RETURNING contact_email, contact_phone, homepage_intro, updated_at`,
		in.ContactEmail, in.ContactPhone, in.HomepageIntro).
		Scan(&in.ContactEmail, &in.ContactPhone, &in.HomepageIntro, &in.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	return &in, nil
}

type pgLogs struct {
	db *sql.DB
}

func (s *pgLogs) Insert(ctx context.Context, entry model.LogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO log_entries (level, category, message, metadata, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		entry.Level, entry.Category, entry.Message, entry.Metadata, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}
	return nil
}

func (s *pgLogs) List(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at
		 FROM log_entries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing log entries: %w", err)
	}
	defer rows.Close()

	var out []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

