// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// GetTask fetches one task.
func (s *TranslationService) GetTask(ctx context.Context, taskID int64) (model.TranslationTask, error) {
	task, err := s.queries.GetTranslationTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return task, err
	}
	return task, nil
}

// ListTasksParams filters the task listing. Zero values mean no filter
// and the default page size.
type ListTasksParams struct {
	Status     string
	EntityType string
	Limit      int64
	Offset     int64
}

// ListTasks returns tasks newest first.
func (s *TranslationService) ListTasks(ctx context.Context, p ListTasksParams) ([]model.TranslationTask, error) {
	if p.EntityType != "" && !model.IsEntityType(p.EntityType) {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrValidation, p.EntityType)
	}
	if p.Limit <= 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit > maxListLimit {
		p.Limit = maxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return s.queries.ListTranslationTasks(ctx, store.ListTranslationTasksParams{
		Status:     p.Status,
		EntityType: p.EntityType,
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
}

// ListHistory returns a task's history snapshots, newest first. The task
// must exist.
func (s *TranslationService) ListHistory(ctx context.Context, taskID int64) ([]model.TranslationHistory, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.queries.ListTranslationHistoryByTask(ctx, taskID)
}
