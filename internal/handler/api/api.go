// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the translation pipeline.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/animap/animap-go/internal/service"
	"github.com/animap/animap-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db      *sql.DB
	queries *store.Queries
	svc     *service.TranslationService
	logger  *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, svc *service.TranslationService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:      db,
		queries: store.New(db),
		svc:     svc,
		logger:  logger,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Get("/events", h.ListEvents)

	r.Route("/translations", func(r chi.Router) {
		r.Post("/tasks", h.CreateTasks)
		r.Get("/tasks", h.ListTasks)
		r.Post("/execute", h.ExecuteTasks)
		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Get("/history", h.ListTaskHistory)
			r.Post("/approve", h.ApproveTask)
			r.Post("/publish", h.PublishTask)
			r.Post("/rollback", h.RollbackTask)
		})
	})

	return r
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Limit  int64 `json:"limit,omitempty"`
	Offset int64 `json:"offset,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeServiceError maps domain errors onto HTTP statuses. This is the
// only place pipeline errors meet transport codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrContentIntegrity):
		WriteError(w, http.StatusUnprocessableEntity, "content_integrity", err.Error())
	case errors.Is(err, service.ErrProvider):
		WriteError(w, http.StatusBadGateway, "provider_error", err.Error())
	default:
		h.logger.Error("unhandled API error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// actingUserID reads the authenticated admin id forwarded by the edge
// proxy. Zero means unattributed.
func actingUserID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get("X-Admin-User"), 10, 64)
	return id
}

// urlParamID parses the {id} route parameter.
func urlParamID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
}

// Healthz reports liveness, including database reachability.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListEvents returns the most recent system events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	events, err := h.queries.ListRecentEvents(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, events, &Meta{Limit: limit})
}
