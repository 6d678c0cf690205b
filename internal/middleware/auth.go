// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session bootstrap,
// role gating, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/eventix/internal/gate"
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/logging"
	"github.com/olegiv/eventix/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeySession     ContextKey = "session_state"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoginPath is where RedirectLogin outcomes are sent.
const LoginPath = "/login"

// Bootstrap creates middleware that resolves the browser session and puts
// its state in the request context. It must run after the session
// manager's LoadAndSave.
func Bootstrap(b *session.Bootstrapper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := b.Resolve(r.Context())
			ctx := WithState(r.Context(), state)
			if id, ok := state.User(); ok {
				ctx = logging.WithUserID(ctx, id.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithState stores a session state in ctx.
func WithState(ctx context.Context, state session.State) context.Context {
	return context.WithValue(ctx, ContextKeySession, state)
}

// GetState retrieves the session state from the request context.
// Without one the state is unknown.
func GetState(r *http.Request) session.State {
	return StateFromContext(r.Context())
}

// StateFromContext is GetState for code that only has a context.
func StateFromContext(ctx context.Context) session.State {
	state, ok := ctx.Value(ContextKeySession).(session.State)
	if !ok {
		return session.State{Status: session.StatusUnknown}
	}
	return state
}

// GetUser returns the identity of the request, if any.
func GetUser(r *http.Request) (identity.Identity, bool) {
	return GetState(r).User()
}

// GetUserID returns the current user's ID from context, or 0 if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) int64 {
	if id, ok := GetUser(r); ok {
		return id.ID
	}
	return 0
}

// RequestPath creates middleware that stores the request path in the
// context and hands the request id and path to the logger.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		ctx = logging.WithRequest(ctx, chimw.GetReqID(ctx), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// GatePages renders the pages of the Deny and Suspend outcomes. Each
// handler must write its own status code. A nil handler falls back to a
// plain response.
type GatePages struct {
	Denied  http.HandlerFunc
	Loading http.HandlerFunc
}

// RequireAuth creates middleware that lets any authenticated user through.
func RequireAuth(pages GatePages) func(http.Handler) http.Handler {
	return Require(gate.Authenticated(), pages)
}

// RequireRole creates middleware that requires exactly the given role.
func RequireRole(role identity.Role, pages GatePages) func(http.Handler) http.Handler {
	return Require(gate.Role(role), pages)
}

// Require creates middleware that applies the gate decision for req.
func Require(req gate.Requirement, pages GatePages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := GetState(r)

			switch gate.Decide(state, req) {
			case gate.Render:
				next.ServeHTTP(w, r)

			case gate.RedirectLogin:
				http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)

			case gate.Deny:
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", state.Identity.ID,
					"user_role", state.Identity.Role,
					"required_role", req.String(),
					"remote_addr", r.RemoteAddr,
				)
				if pages.Denied != nil {
					pages.Denied(w, r)
					return
				}
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)

			case gate.Suspend:
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Cache-Control", "no-store")
				if pages.Loading != nil {
					pages.Loading(w, r)
					return
				}
				writeLoading(w)
			}
		})
	}
}

// writeLoading is the fallback placeholder of an unresolved session.
func writeLoading(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`<!doctype html><meta http-equiv="refresh" content="1"><title>Loading</title><p>Loading…</p>`))
}

// LoginURL returns the login URL that brings the user back to r afterwards.
// Form posts return to the page they were sent from.
func LoginURL(r *http.Request) string {
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		next = "/"
		if ref, err := url.Parse(r.Referer()); err == nil && (ref.Host == "" || ref.Host == r.Host) {
			next = SafeNext(ref.RequestURI())
		}
	}
	if next == "/" || next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, "/" otherwise.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if strings.HasPrefix(next, LoginPath) {
		return "/"
	}
	return next
}
