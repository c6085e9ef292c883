// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/service"
)

// TaskResponse represents a translation task in API responses.
type TaskResponse struct {
	ID             int64           `json:"id"`
	EntityType     string          `json:"entity_type"`
	EntityID       int64           `json:"entity_id"`
	TargetLanguage string          `json:"target_language"`
	Status         string          `json:"status"`
	SourceContent  json.RawMessage `json:"source_content,omitempty"`
	DraftContent   json.RawMessage `json:"draft_content,omitempty"`
	FinalContent   json.RawMessage `json:"final_content,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HistoryResponse represents a history snapshot in API responses.
type HistoryResponse struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	EntityID    int64     `json:"entity_id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	ContentHTML string    `json:"content_html,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func taskToResponse(t model.TranslationTask) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID,
		EntityType:     t.EntityType,
		EntityID:       t.EntityID,
		TargetLanguage: t.TargetLanguage,
		Status:         t.Status,
		SourceContent:  json.RawMessage(t.SourceContent),
		DraftContent:   json.RawMessage(t.DraftContent),
		FinalContent:   json.RawMessage(t.FinalContent),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.ErrorMessage.Valid {
		resp.ErrorMessage = t.ErrorMessage.String
	}
	return resp
}

func historyToResponse(h model.TranslationHistory) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		TaskID:      h.TranslationTaskID,
		EntityID:    h.EntityID,
		UserID:      h.UserID,
		Title:       h.Title,
		Description: h.Description,
		Content:     h.Content,
		ContentHTML: h.ContentHTML,
		CreatedAt:   h.CreatedAt,
	}
}

// CreateTasksRequest is the body for the batch creation endpoint.
type CreateTasksRequest struct {
	EntityType      string   `json:"entity_type"`
	TargetLanguages []string `json:"target_languages"`
}

// CreateTasks discovers untranslated entities of one type and creates
// pending tasks for them.
func (h *Handler) CreateTasks(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	result, err := h.svc.CreateMissingTasks(r.Context(), req.EntityType, req.TargetLanguages)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteCreated(w, result)
}

// ExecuteTasksRequest is the body for the execution endpoint.
type ExecuteTasksRequest struct {
	TaskIDs []int64 `json:"task_ids"`
}

// ExecuteTasks runs a batch of tasks through the translation provider.
func (h *Handler) ExecuteTasks(w http.ResponseWriter, r *http.Request) {
	var req ExecuteTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	result, err := h.svc.ExecuteTasks(r.Context(), req.TaskIDs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, result, nil)
}

// ListTasks returns tasks, newest first, optionally filtered by status
// and entity type.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := service.ListTasksParams{
		Status:     query.Get("status"),
		EntityType: query.Get("entity_type"),
	}
	params.Limit, _ = parseInt64(query.Get("limit"))
	params.Offset, _ = parseInt64(query.Get("offset"))

	tasks, err := h.svc.ListTasks(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskToResponse(t))
	}
	WriteSuccess(w, resp, &Meta{Limit: params.Limit, Offset: params.Offset})
}

// GetTask returns one task.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, taskToResponse(task), nil)
}

// ListTaskHistory returns a task's history snapshots, newest first.
func (h *Handler) ListTaskHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	history, err := h.svc.ListHistory(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]HistoryResponse, 0, len(history))
	for _, snapshot := range history {
		resp = append(resp, historyToResponse(snapshot))
	}
	WriteSuccess(w, resp, nil)
}

// ApproveTask applies a ready task's draft to the live entity.
func (h *Handler) ApproveTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	if err := h.svc.Approve(r.Context(), id, actingUserID(r)); err != nil {
		h.writeServiceError(w, err)
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, taskToResponse(task), nil)
}

// PublishTaskRequest is the body for the publish-update endpoint.
type PublishTaskRequest struct {
	Content           model.TaskContent `json:"content"`
	ExpectedUpdatedAt time.Time         `json:"expected_updated_at"`
}

// PublishTask overwrites an approved article translation with edited
// content, guarded by the updated_at the editor last saw.
func (h *Handler) PublishTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	var req PublishTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.ExpectedUpdatedAt.IsZero() {
		WriteError(w, http.StatusBadRequest, "bad_request", "expected_updated_at is required")
		return
	}

	if err := h.svc.PublishUpdate(r.Context(), id, actingUserID(r), req.Content, req.ExpectedUpdatedAt); err != nil {
		h.writeServiceError(w, err)
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, taskToResponse(task), nil)
}

// RollbackTaskRequest is the body for the rollback endpoint.
type RollbackTaskRequest struct {
	HistoryID int64 `json:"history_id"`
}

// RollbackTask restores a history snapshot onto the live entity.
func (h *Handler) RollbackTask(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	var req RollbackTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.HistoryID <= 0 {
		WriteError(w, http.StatusBadRequest, "bad_request", "history_id is required")
		return
	}

	if err := h.svc.Rollback(r.Context(), id, req.HistoryID, actingUserID(r)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"restored": true}, nil)
}

func parseInt64(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
