// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/eventix/internal/gate"
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/session"
)

const organizerContent = "organizer dashboard"

type stubFetcher struct {
	id    identity.Identity
	err   error
	block chan struct{}
}

func (f *stubFetcher) WhoAmI(ctx context.Context, _ string) (identity.Identity, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return identity.Identity{}, ctx.Err()
		}
	}
	return f.id, f.err
}

// newGatedServer wires the session manager, the bootstrap and the gate the
// same way the server does, with one page per requirement.
func newGatedServer(f session.ProfileFetcher, wait time.Duration) http.Handler {
	sm := session.New(nil, true)
	store := session.NewStore(sm)
	b := session.NewBootstrapper(store, f, session.BootstrapConfig{Wait: wait}, nil)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(Bootstrap(b))

	r.With(RequireRole(identity.RoleOrganizer, GatePages{})).Get("/organizer/home", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(organizerContent))
	})
	r.With(RequireAuth(GatePages{})).Get("/profile", func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetUser(r)
		_, _ = w.Write([]byte(id.Email))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetState(r).Status.String()))
	})
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGate_AnonymousIsSentToLogin(t *testing.T) {
	h := newGatedServer(&stubFetcher{err: errors.New("no session")}, time.Second)

	rec := get(t, h, "/organizer/home")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Forganizer%2Fhome", rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), organizerContent)
}

func TestGate_VisitorIsDeniedOrganizerArea(t *testing.T) {
	h := newGatedServer(&stubFetcher{id: identity.Identity{ID: 2, Email: "v@example.com", Role: identity.RoleVisitor}}, time.Second)

	rec := get(t, h, "/organizer/home")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), organizerContent)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestGate_RecoveredSessionRendersWithoutLogin(t *testing.T) {
	h := newGatedServer(&stubFetcher{id: identity.Identity{ID: 3, Email: "o@example.com", Role: identity.RoleOrganizer}}, time.Second)

	rec := get(t, h, "/organizer/home")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, organizerContent, rec.Body.String())
}

func TestGate_AnyRoleForAuthenticatedPages(t *testing.T) {
	h := newGatedServer(&stubFetcher{id: identity.Identity{ID: 4, Email: "a@example.com", Role: identity.RoleAdmin}}, time.Second)

	rec := get(t, h, "/profile")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", rec.Body.String())
}

func TestGate_PendingSessionSuspends(t *testing.T) {
	f := &stubFetcher{block: make(chan struct{})}
	defer close(f.block)
	h := newGatedServer(f, 10*time.Millisecond)

	rec := get(t, h, "/organizer/home")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Location"), "an unresolved session must never be sent to login")
	assert.NotContains(t, rec.Body.String(), organizerContent)
}

func TestGate_PublicPageSeesState(t *testing.T) {
	h := newGatedServer(&stubFetcher{err: errors.New("no session")}, time.Second)

	rec := get(t, h, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unauthenticated", rec.Body.String())
}

func TestRequire_CustomPages(t *testing.T) {
	pages := GatePages{
		Denied: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("custom denied"))
		},
		Loading: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("custom loading"))
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next must not run")
	})
	handler := Require(gate.Role(identity.RoleAdmin), pages)(next)

	tests := []struct {
		name       string
		state      session.State
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deny",
			state:      session.State{Status: session.StatusAuthenticated, Identity: identity.Identity{ID: 1, Role: identity.RoleVisitor}},
			wantStatus: http.StatusForbidden,
			wantBody:   "custom denied",
		},
		{
			name:       "suspend",
			state:      session.State{Status: session.StatusUnknown},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "custom loading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req = req.WithContext(WithState(req.Context(), tt.state))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestStateFromContext_DefaultsToUnknown(t *testing.T) {
	state := StateFromContext(context.Background())
	assert.True(t, state.Pending())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, int64(0), GetUserID(req))
}

func TestLoginURL(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		referer string
		want    string
	}{
		{name: "get keeps path and query", method: http.MethodGet, target: "/organizer/events?page=2", want: "/login?next=%2Forganizer%2Fevents%3Fpage%3D2"},
		{name: "root", method: http.MethodGet, target: "/", want: "/login"},
		{name: "post returns to referer", method: http.MethodPost, target: "/events/4/like", referer: "http://example.com/events/4", want: "/login?next=%2Fevents%2F4"},
		{name: "post foreign referer", method: http.MethodPost, target: "/events/4/like", referer: "http://evil.example/x", want: "/login"},
		{name: "post without referer", method: http.MethodPost, target: "/events/4/like", want: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://example.com"+tt.target, nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, LoginURL(req))
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/events/4", "/events/4"},
		{"/organizer/home?tab=stats", "/organizer/home?tab=stats"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"https://evil.example", "/"},
		{"/login?next=/x", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNext(tt.next))
		})
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/9", nil))

	require.Equal(t, "/events/9", got)
}
