// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/animap/animap-go/internal/model"
)

const taskColumns = `id, entity_type, entity_id, target_language, status,
	source_content, draft_content, final_content, error_message, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (model.TranslationTask, error) {
	var t model.TranslationTask
	err := row.Scan(
		&t.ID, &t.EntityType, &t.EntityID, &t.TargetLanguage, &t.Status,
		&t.SourceContent, &t.DraftContent, &t.FinalContent, &t.ErrorMessage,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// CreateTranslationTaskParams identifies the task to create.
type CreateTranslationTaskParams struct {
	EntityType     string
	EntityID       int64
	TargetLanguage string
	CreatedAt      time.Time
}

// CreateTranslationTask idempotently creates a pending task for the given
// (entity_type, entity_id, target_language) triple. The bool result is
// false when a task for the triple already existed; that is never an
// error.
func (q *Queries) CreateTranslationTask(ctx context.Context, p CreateTranslationTaskParams) (int64, bool, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO translation_tasks (entity_type, entity_id, target_language, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_id, target_language) DO NOTHING
		RETURNING id`,
		p.EntityType, p.EntityID, p.TargetLanguage, model.TaskStatusPending, p.CreatedAt, p.CreatedAt,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("creating translation task: %w", err)
	}
	return id, true, nil
}

// GetTranslationTask fetches a task by id.
func (q *Queries) GetTranslationTask(ctx context.Context, id int64) (model.TranslationTask, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM translation_tasks WHERE id = ?`, id)
	return scanTask(row)
}

// HasTranslationTask reports whether a task exists for the triple.
func (q *Queries) HasTranslationTask(ctx context.Context, entityType string, entityID int64, targetLanguage string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM translation_tasks
		WHERE entity_type = ? AND entity_id = ? AND target_language = ?`,
		entityType, entityID, targetLanguage,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTranslationTasksParams filters the task listing. Empty Status or
// EntityType means no filter.
type ListTranslationTasksParams struct {
	Status     string
	EntityType string
	Limit      int64
	Offset     int64
}

// ListTranslationTasks returns tasks newest first.
func (q *Queries) ListTranslationTasks(ctx context.Context, p ListTranslationTasksParams) ([]model.TranslationTask, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM translation_tasks
		WHERE (? = '' OR status = ?)
		  AND (? = '' OR entity_type = ?)
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		p.Status, p.Status, p.EntityType, p.EntityType, p.Limit, p.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.TranslationTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkTaskProcessing transitions a task to processing.
func (q *Queries) MarkTaskProcessing(ctx context.Context, id int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE translation_tasks SET status = ?, updated_at = ? WHERE id = ?`,
		model.TaskStatusProcessing, now, id)
	return err
}

// MarkTaskReadyParams records a successful translation.
type MarkTaskReadyParams struct {
	ID            int64
	SourceContent string
	DraftContent  string
	UpdatedAt     time.Time
}

// MarkTaskReady stores the source snapshot and draft and clears any
// previous error.
func (q *Queries) MarkTaskReady(ctx context.Context, p MarkTaskReadyParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE translation_tasks
		SET status = ?, source_content = ?, draft_content = ?, error_message = NULL, updated_at = ?
		WHERE id = ?`,
		model.TaskStatusReady, p.SourceContent, p.DraftContent, p.UpdatedAt, p.ID)
	return err
}

// MarkTaskFailedParams records a failed translation attempt.
type MarkTaskFailedParams struct {
	ID           int64
	ErrorMessage string
	UpdatedAt    time.Time
}

// MarkTaskFailed stores the failure reason. The draft is left untouched.
func (q *Queries) MarkTaskFailed(ctx context.Context, p MarkTaskFailedParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE translation_tasks SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		model.TaskStatusFailed, p.ErrorMessage, p.UpdatedAt, p.ID)
	return err
}

// MarkTaskApprovedParams records the applied content on approval.
type MarkTaskApprovedParams struct {
	ID           int64
	FinalContent string
	UpdatedAt    time.Time
}

// MarkTaskApproved transitions a task to approved and stores the content
// that was applied to the live entity.
func (q *Queries) MarkTaskApproved(ctx context.Context, p MarkTaskApprovedParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE translation_tasks SET status = ?, final_content = ?, updated_at = ? WHERE id = ?`,
		model.TaskStatusApproved, p.FinalContent, p.UpdatedAt, p.ID)
	return err
}

// UpdateTaskFinalContent updates only the last-applied content, used by
// publish-update and rollback which do not change the task status.
func (q *Queries) UpdateTaskFinalContent(ctx context.Context, id int64, finalContent string, now time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE translation_tasks SET final_content = ?, updated_at = ? WHERE id = ?`,
		finalContent, now, id)
	return err
}
