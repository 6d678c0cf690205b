// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/session"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, flashTypeError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, flashTypeSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, r *http.Request, message string, statusCode int, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	logAndHTTPError(w, r, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// parseIDParam reads a positive int64 URL parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formInt reads an int form value, returning def when it is missing or bad.
func formInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return def
	}
	return n
}

// statusFor maps a backend failure to the status of the page showing it.
func statusFor(err error) int {
	switch api.KindOf(err) {
	case api.KindValidation:
		return http.StatusUnprocessableEntity
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindConflict:
		return http.StatusConflict
	case api.KindForbidden:
		return http.StatusForbidden
	case api.KindNetwork, api.KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// base carries what every page handler needs.
type base struct {
	api      *api.Client
	store    *session.Store
	renderer *render.Renderer
}

// cred returns the backend credential of the request's session.
func (b base) cred(r *http.Request) string {
	return b.store.Credential(r.Context())
}

// page renders a page with status 200.
func (b base) page(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	b.renderer.Page(w, r, name, render.TemplateData{Title: title, Data: data})
}

// pageError renders a page with an inline error banner and the submitted
// form values.
func (b base) pageError(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, msg string) {
	b.renderer.PageStatus(w, r, status, name, render.TemplateData{
		Title: title,
		Data:  data,
		Error: msg,
		Form:  r.PostForm,
	})
}

// sessionExpired handles a backend 401: the identity is dropped and the
// browser is sent to the login page. Reports whether it handled err.
func (b base) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	ctx := r.Context()
	slog.InfoContext(ctx, "backend session expired", "user_id", middleware.GetUserID(r))
	b.store.ClearIdentity(ctx)
	b.store.SetCredential(ctx, "")
	b.store.Flash(ctx, "Your session has expired. Please log in again.", flashTypeInfo)
	http.Redirect(w, r, middleware.LoginURL(r), http.StatusSeeOther)
	return true
}

// fail renders a backend failure as an inline banner on the given page,
// unless it is an expired session.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, name, title string, data any, fallback string) {
	if b.sessionExpired(w, r, err) {
		return
	}
	b.logFailure(r, err)
	b.pageError(w, r, statusFor(err), name, title, data, api.Message(err, fallback))
}

// failFlash reports a backend failure as a flash message on the page at
// redirectURL, unless it is an expired session.
func (b base) failFlash(w http.ResponseWriter, r *http.Request, err error, redirectURL, fallback string) {
	if b.sessionExpired(w, r, err) {
		return
	}
	b.logFailure(r, err)
	flashError(w, r, b.renderer, redirectURL, api.Message(err, fallback))
}

// logFailure logs unexpected failures at error level. Expected outcomes
// such as validation errors are logged at debug.
func (b base) logFailure(r *http.Request, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindValidation, api.KindNotFound, api.KindConflict, api.KindForbidden:
			slog.DebugContext(r.Context(), "backend rejected request", "kind", apiErr.Kind, "status", apiErr.Status, "message", apiErr.Message)
			return
		}
	}
	slog.ErrorContext(r.Context(), "backend call failed", "error", err)
}

// notFound renders the error page with a 404.
func (b base) notFound(w http.ResponseWriter, r *http.Request) {
	b.renderer.PageStatus(w, r, http.StatusNotFound, pageError, render.TemplateData{
		Title: "Not found",
		Data:  errorPage{Status: http.StatusNotFound, Message: "The page you are looking for does not exist."},
	})
}

// errorPage is the data of the generic error page.
type errorPage struct {
	Status  int
	Message string
}

// formValues returns r.PostForm, or an empty set before parsing.
func formValues(r *http.Request) url.Values {
	if r.PostForm == nil {
		return url.Values{}
	}
	return r.PostForm
}
