// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Entity types a translation task can target.
const (
	EntityTypeArticle = "article"
	EntityTypeCity    = "city"
	EntityTypeAnime   = "anime"
)

// Translation task statuses.
const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusReady      = "ready"
	TaskStatusFailed     = "failed"
	TaskStatusApproved   = "approved"
)

// IsEntityType reports whether s names a known translatable entity type.
func IsEntityType(s string) bool {
	switch s {
	case EntityTypeArticle, EntityTypeCity, EntityTypeAnime:
		return true
	}
	return false
}

// TranslationTask tracks one machine translation of one entity into one
// target language. At most one task exists per
// (entity_type, entity_id, target_language) triple.
type TranslationTask struct {
	ID             int64          `json:"id"`
	EntityType     string         `json:"entity_type"`
	EntityID       int64          `json:"entity_id"`
	TargetLanguage string         `json:"target_language"`
	Status         string         `json:"status"`
	SourceContent  string         `json:"source_content"` // JSON snapshot at execution time
	DraftContent   string         `json:"draft_content"`  // JSON, same shape as source
	FinalContent   string         `json:"final_content"`  // JSON, last applied content
	ErrorMessage   sql.NullString `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Executable reports whether the task may enter execution. Only pending
// and failed tasks are eligible; everything else is skipped.
func (t *TranslationTask) Executable() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusFailed
}

// TaskContent is the payload stored in SourceContent, DraftContent and
// FinalContent. Articles use Title/Description/Content/ContentHTML,
// cities and anime use Name/Description.
type TaskContent struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`      // document tree JSON
	ContentHTML string `json:"content_html,omitempty"` // rendered markup
	Name        string `json:"name,omitempty"`
}
