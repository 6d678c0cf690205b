// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render renders the server-side views. Every page is parsed
// together with the base layout and the partials, and receives the session
// state of the request.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/session"
)

// pageDirs are the template directories holding pages. A page is named
// "<dir>/<file without .html>", e.g. "organizer/events".
var pageDirs = []string{"pages", "auth", "account", "visitor", "organizer", "admin"}

const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	store     *session.Store
	isDev     bool
	now       func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Store       *session.Store
	IsDev       bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		store:     cfg.Store,
		isDev:     cfg.IsDev,
		now:       time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, partialsDir)
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, dir := range pageDirs {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{baseLayout}, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	if len(r.templates) == 0 {
		return fmt.Errorf("no page templates found")
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing
// directory yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title string
	Data  any

	// Error is an inline error banner for the current page.
	Error string
	// Form holds submitted values to refill a form after an error.
	Form url.Values

	Flash       string
	FlashType   string
	CurrentYear int
	Path        string
	Session     session.State
	Dev         bool
}

// User returns the authenticated identity, zero without one.
func (d TemplateData) User() identity.Identity {
	id, _ := d.Session.User()
	return id
}

// IsRole reports whether the session holds the named role ("organizer").
func (d TemplateData) IsRole(name string) bool {
	role, err := identity.ParseRole(name)
	if err != nil {
		return false
	}
	return d.Session.Authenticated() && d.Session.Role() == role
}

// Value returns a submitted form value.
func (d TemplateData) Value(key string) string {
	if d.Form == nil {
		return ""
	}
	return d.Form.Get(key)
}

// Render renders a page with the given status code. The page is rendered
// to a buffer first so that template errors never produce half a page.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()
	data.Path = req.URL.Path
	data.Session = middleware.GetState(req)
	data.Dev = r.isDev

	if r.store != nil && data.Flash == "" {
		data.Flash, data.FlashType = r.store.PopFlash(req.Context())
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// Page renders a page with status 200, falling back to a plain 500 when
// rendering fails.
func (r *Renderer) Page(w http.ResponseWriter, req *http.Request, name string, data TemplateData) {
	r.PageStatus(w, req, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code.
func (r *Renderer) PageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) {
	if err := r.Render(w, req, status, name, data); err != nil {
		slog.ErrorContext(req.Context(), "render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// SetFlash sets a flash message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.store != nil {
		r.store.Flash(req.Context(), message, flashType)
	}
}
