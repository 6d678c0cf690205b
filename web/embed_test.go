// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/session"
)

var pages = []string{
	"pages/home", "pages/event", "pages/denied", "pages/loading", "pages/error",
	"auth/login", "auth/register",
	"account/profile",
	"visitor/subscriptions", "visitor/payment",
	"organizer/dashboard", "organizer/events", "organizer/event_form", "organizer/stats",
	"organizer/subscribers", "organizer/members", "organizer/scanner",
	"admin/dashboard", "admin/users", "admin/events", "admin/comments",
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	templates, err := fs.Sub(Templates, "templates")
	require.NoError(t, err)

	r, err := render.New(render.Config{TemplatesFS: templates})
	require.NoError(t, err)
	return r
}

func TestTemplates_AllPagesParse(t *testing.T) {
	r := newRenderer(t)
	for _, page := range pages {
		assert.True(t, r.Has(page), page)
	}
}

func TestTemplates_LoginRenders(t *testing.T) {
	r := newRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(middleware.WithState(req.Context(), session.State{}))
	w := httptest.NewRecorder()

	err := r.Render(w, req, http.StatusOK, "auth/login", render.TemplateData{
		Title: "Log in",
		Data:  struct{ Next string }{Next: "/organizer"},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Contains(t, body, "<title>Log in · Eventix</title>")
	assert.Contains(t, body, `name="next" value="/organizer"`)
	assert.Contains(t, body, `href="/static/css/app.css"`)
	assert.Contains(t, body, `href="/register/visitor"`)
}

func TestTemplates_DeniedShowsUser(t *testing.T) {
	r := newRenderer(t)

	state := session.State{Status: session.StatusAuthenticated, Identity: identity.Identity{ID: 5, Email: "visitor@example.com", Role: identity.RoleVisitor}}
	req := httptest.NewRequest(http.MethodGet, "/organizer", nil)
	req = req.WithContext(middleware.WithState(req.Context(), state))
	w := httptest.NewRecorder()

	require.NoError(t, r.Render(w, req, http.StatusForbidden, "pages/denied", render.TemplateData{Title: "Access denied"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "visitor@example.com")
	assert.Contains(t, w.Body.String(), `href="/my-subscriptions"`)
}

func TestStatic_Assets(t *testing.T) {
	for _, name := range []string{"static/dist/css/app.css", "static/dist/js/app.js"} {
		_, err := fs.Stat(Static, name)
		assert.NoError(t, err, name)
	}
}
