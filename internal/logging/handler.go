// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that enriches records with
// request-scoped attributes carried in the context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey string

const (
	keyRequestID contextKey = "log_request_id"
	keyPath      contextKey = "log_path"
	keyUserID    contextKey = "log_user_id"
)

// WithRequest stores the request id and path for log records.
func WithRequest(ctx context.Context, requestID, path string) context.Context {
	if requestID != "" {
		ctx = context.WithValue(ctx, keyRequestID, requestID)
	}
	if path != "" {
		ctx = context.WithValue(ctx, keyPath, path)
	}
	return ctx
}

// WithUserID stores the authenticated user id for log records.
func WithUserID(ctx context.Context, id int64) context.Context {
	if id == 0 {
		return ctx
	}
	return context.WithValue(ctx, keyUserID, id)
}

// ContextHandler is a slog.Handler that wraps another handler and adds
// request_id, path and user_id attributes found in the record's context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id, ok := ctx.Value(keyRequestID).(string); ok {
			r.AddAttrs(slog.String("request_id", id))
		}
		if path, ok := ctx.Value(keyPath).(string); ok {
			r.AddAttrs(slog.String("path", path))
		}
		if uid, ok := ctx.Value(keyUserID).(int64); ok {
			r.AddAttrs(slog.Int64("user_id", uid))
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger: a text handler on w wrapped in a
// ContextHandler. Development mode adds source locations.
func New(w io.Writer, level slog.Level, dev bool) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: dev,
	})
	return slog.New(NewContextHandler(inner))
}
