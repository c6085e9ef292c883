// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/animap/animap-go/internal/model"
)

const historyColumns = `id, translation_task_id, entity_id, user_id, title, description,
	content, content_html, created_at`

func scanHistory(row interface{ Scan(...any) error }) (model.TranslationHistory, error) {
	var h model.TranslationHistory
	err := row.Scan(
		&h.ID, &h.TranslationTaskID, &h.EntityID, &h.UserID, &h.Title,
		&h.Description, &h.Content, &h.ContentHTML, &h.CreatedAt,
	)
	return h, err
}

// CreateTranslationHistoryParams holds a pre-overwrite content snapshot.
type CreateTranslationHistoryParams struct {
	TranslationTaskID int64
	EntityID          int64
	UserID            int64
	Title             string
	Description       string
	Content           string
	ContentHTML       string
	CreatedAt         time.Time
}

// CreateTranslationHistory appends a history snapshot. History rows are
// create-only; there are no update or delete queries on purpose.
func (q *Queries) CreateTranslationHistory(ctx context.Context, p CreateTranslationHistoryParams) (model.TranslationHistory, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO translation_history (translation_task_id, entity_id, user_id, title,
			description, content, content_html, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+historyColumns,
		p.TranslationTaskID, p.EntityID, p.UserID, p.Title,
		p.Description, p.Content, p.ContentHTML, p.CreatedAt,
	)
	return scanHistory(row)
}

// GetTranslationHistory fetches a history snapshot by id.
func (q *Queries) GetTranslationHistory(ctx context.Context, id int64) (model.TranslationHistory, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+historyColumns+` FROM translation_history WHERE id = ?`, id)
	return scanHistory(row)
}

// ListTranslationHistoryByTask returns a task's snapshots, newest first.
func (q *Queries) ListTranslationHistoryByTask(ctx context.Context, taskID int64) ([]model.TranslationHistory, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+historyColumns+` FROM translation_history
		WHERE translation_task_id = ? ORDER BY id DESC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []model.TranslationHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, h)
	}
	return snapshots, rows.Err()
}
