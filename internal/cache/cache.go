// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides a small byte-oriented cache used for the
// public published-events listing, with in-memory and Redis backends.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is the backend contract. Implementations are thread-safe.
type Cache interface {
	// Get returns the value for key, or ErrMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Error is a sentinel cache error.
type Error string

func (e Error) Error() string { return string(e) }

// ErrMiss indicates the key was not found or has expired.
const ErrMiss Error = "cache miss"

// New selects a backend: Redis when redisURL is set and reachable,
// otherwise memory. A Redis connection failure falls back to memory
// with a warning rather than refusing to start.
func New(redisURL string, defaultTTL time.Duration) Cache {
	if redisURL != "" {
		c, err := NewRedis(redisURL, defaultTTL)
		if err == nil {
			slog.Info("cache backend ready", "backend", "redis")
			return c
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}
	return NewMemory(defaultTTL)
}
