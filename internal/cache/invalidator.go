// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// PathInvalidator signals that rendered pages are stale after the
// translation pipeline writes live content. Invalidation is best-effort:
// failures are logged and swallowed, a stale page is never worth failing
// a publish over.
type PathInvalidator struct {
	cache     Cache
	logger    *slog.Logger
	languages []string
}

// NewPathInvalidator creates a PathInvalidator that clears keys for every
// locale-prefixed variant of a path.
func NewPathInvalidator(c Cache, logger *slog.Logger, languages []string) *PathInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathInvalidator{cache: c, logger: logger, languages: languages}
}

// InvalidatePaths drops the cached page for each given path plus the home
// page, in every language. Errors never propagate.
func (i *PathInvalidator) InvalidatePaths(ctx context.Context, paths ...string) {
	if i.cache == nil {
		return
	}

	all := append([]string{"/"}, paths...)
	for _, path := range all {
		for _, lang := range i.languages {
			key := PageKey(lang, path)
			if err := i.cache.Delete(ctx, key); err != nil {
				i.logger.Debug("cache invalidation failed",
					"category", "cache", "key", key, "error", err)
			}
		}
	}
}

// PageKey builds the cache key for a rendered page in a language.
func PageKey(lang, path string) string {
	return fmt.Sprintf("page:%s:%s", lang, path)
}
