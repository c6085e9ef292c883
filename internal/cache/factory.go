// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "time"

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when non-empty; the in-memory
	// backend is used otherwise.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	// DefaultTTL is the default TTL for cache entries.
	DefaultTTL time.Duration

	// CleanupInterval is the expired-entry sweep interval for the
	// memory backend.
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          "animap:",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute,
	}
}

// NewCache creates a cache based on the provided configuration.
func NewCache(cfg Config) (Cache, error) {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}
		return NewRedisCache(opts)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}
