// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/store"
)

// maxExecuteBatch caps how many task ids one execution request may carry.
const maxExecuteBatch = 200

// Per-task execution outcomes.
const (
	TaskResultSuccess = "success"
	TaskResultFailed  = "failed"
	TaskResultSkipped = "skipped"
)

// TaskResult reports the outcome of a single task in an execution run.
type TaskResult struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ExecuteResult summarizes one execution run.
type ExecuteResult struct {
	RunID   string       `json:"run_id"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Results []TaskResult `json:"results"`
}

// ExecuteTasks runs the given tasks through the translation provider, one
// at a time. Failures are isolated: a task that errors is marked failed
// and the run moves on. Only pending and failed tasks execute; anything
// else, including unknown ids, is reported as skipped.
func (s *TranslationService) ExecuteTasks(ctx context.Context, taskIDs []int64) (ExecuteResult, error) {
	result := ExecuteResult{RunID: uuid.New().String()}

	if len(taskIDs) == 0 {
		return result, fmt.Errorf("%w: no task ids", ErrValidation)
	}
	if len(taskIDs) > maxExecuteBatch {
		return result, fmt.Errorf("%w: batch of %d exceeds limit of %d", ErrValidation, len(taskIDs), maxExecuteBatch)
	}

	for _, taskID := range taskIDs {
		r := s.executeTask(ctx, taskID)
		result.Results = append(result.Results, r)
		switch r.Status {
		case TaskResultSuccess:
			result.Success++
		case TaskResultFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}

	s.logger.Info("task execution finished",
		"category", model.EventCategoryTranslation,
		"run_id", result.RunID,
		"success", result.Success, "failed", result.Failed, "skipped", result.Skipped)
	return result, nil
}

func (s *TranslationService) executeTask(ctx context.Context, taskID int64) TaskResult {
	task, err := s.queries.GetTranslationTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TaskResult{TaskID: taskID, Status: TaskResultSkipped, Reason: "not found"}
		}
		return TaskResult{TaskID: taskID, Status: TaskResultFailed, Reason: err.Error()}
	}
	if !task.Executable() {
		return TaskResult{TaskID: taskID, Status: TaskResultSkipped,
			Reason: fmt.Sprintf("status is %s", task.Status)}
	}

	now := time.Now()
	if err := s.queries.MarkTaskProcessing(ctx, taskID, now); err != nil {
		return TaskResult{TaskID: taskID, Status: TaskResultFailed, Reason: err.Error()}
	}

	source, draft, err := s.translateEntity(ctx, task)
	if err != nil {
		s.failTask(ctx, taskID, err)
		return TaskResult{TaskID: taskID, Status: TaskResultFailed, Reason: err.Error()}
	}

	sourceJSON, err := encodeTaskContent(source)
	if err != nil {
		s.failTask(ctx, taskID, err)
		return TaskResult{TaskID: taskID, Status: TaskResultFailed, Reason: err.Error()}
	}
	draftJSON, err := encodeTaskContent(draft)
	if err != nil {
		s.failTask(ctx, taskID, err)
		return TaskResult{TaskID: taskID, Status: TaskResultFailed, Reason: err.Error()}
	}

	if err := s.queries.MarkTaskReady(ctx, store.MarkTaskReadyParams{
		ID:            taskID,
		SourceContent: sourceJSON,
		DraftContent:  draftJSON,
		UpdatedAt:     time.Now(),
	}); err != nil {
		return TaskResult{TaskID: taskID, Status: TaskResultFailed, Reason: err.Error()}
	}
	return TaskResult{TaskID: taskID, Status: TaskResultSuccess}
}

// failTask records a failure on the task row. A failed status write on
// top of a failed translation is only logged; the original error already
// decides the task result.
func (s *TranslationService) failTask(ctx context.Context, taskID int64, cause error) {
	err := s.queries.MarkTaskFailed(ctx, store.MarkTaskFailedParams{
		ID:           taskID,
		ErrorMessage: cause.Error(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		s.logger.Error("marking task failed",
			"category", model.EventCategoryTranslation,
			"task_id", taskID, "error", err)
	}
}
