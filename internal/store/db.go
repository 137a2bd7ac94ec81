// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewDB opens a PostgreSQL connection pool using the given DSN
// (DATABASE_URL) and verifies connectivity.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending embedded migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// NewPostgres creates a Store backed by the given database handle.
func NewPostgres(db *sql.DB) *Store {
	return &Store{
		Events:     &pgEvents{db: db},
		Categories: &pgCategories{db: db},
		Users:      &pgUsers{db: db},
		Settings:   &pgSettings{db: db},
		Logs:       &pgLogs{db: db},
	}
}
