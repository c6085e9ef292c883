// Package logging provides a custom slog handler that mirrors WARN and
// ERROR level records into the database-backed event log for auditing.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler creates an EventLogHandler forwarding WARN+ records
// to the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	level := model.EventLevelWarning
	if r.Level >= slog.LevelError {
		level = model.EventLevelError
	}

	category := model.EventCategorySystem
	metadata := map[string]string{}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return true
		}
		metadata[a.Key] = a.Value.String()
		return true
	})

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		metaJSON = []byte("{}")
	}

	// Background context so the event lands even when the request
	// context is already cancelled.
	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   r.Message,
		Metadata:  string(metaJSON),
		CreatedAt: r.Time,
	})
}
