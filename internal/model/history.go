// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// TranslationHistory is an append-only snapshot of live content taken
// immediately before the translation pipeline overwrites it. Rows are
// never updated or deleted; a rollback snapshots the current state first,
// so rollbacks are themselves undoable.
type TranslationHistory struct {
	ID                int64     `json:"id"`
	TranslationTaskID int64     `json:"translation_task_id"`
	EntityID          int64     `json:"entity_id"`
	UserID            int64     `json:"user_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Content           string    `json:"content"` // document tree JSON
	ContentHTML       string    `json:"content_html"`
	CreatedAt         time.Time `json:"created_at"`
}
