// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
)

// PagesHandler renders the pages that are not tied to a feature: the gate
// outcomes and the error pages.
type PagesHandler struct {
	renderer *render.Renderer
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// GatePages returns the Deny and Suspend pages for the gate middleware.
func (h *PagesHandler) GatePages() middleware.GatePages {
	return middleware.GatePages{
		Denied:  h.Denied,
		Loading: h.Loading,
	}
}

// Denied renders the access-denied page.
func (h *PagesHandler) Denied(w http.ResponseWriter, r *http.Request) {
	h.renderer.PageStatus(w, r, http.StatusForbidden, pageDenied, render.TemplateData{
		Title: "Access denied",
	})
}

// Loading renders the placeholder shown while the session is still being
// resolved. The page refreshes itself.
func (h *PagesHandler) Loading(w http.ResponseWriter, r *http.Request) {
	h.renderer.PageStatus(w, r, http.StatusServiceUnavailable, pageLoading, render.TemplateData{
		Title: "Loading",
	})
}

// NotFound renders the 404 page.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.PageStatus(w, r, http.StatusNotFound, pageError, render.TemplateData{
		Title: "Not found",
		Data:  errorPage{Status: http.StatusNotFound, Message: "The page you are looking for does not exist."},
	})
}

// MethodNotAllowed renders the 405 page.
func (h *PagesHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.renderer.PageStatus(w, r, http.StatusMethodNotAllowed, pageError, render.TemplateData{
		Title: "Method not allowed",
		Data:  errorPage{Status: http.StatusMethodNotAllowed, Message: "This action is not available here."},
	})
}

// CSRFFailure renders the page shown when a cross-site form post is rejected.
func (h *PagesHandler) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	h.renderer.PageStatus(w, r, http.StatusForbidden, pageError, render.TemplateData{
		Title: "Request rejected",
		Data:  errorPage{Status: http.StatusForbidden, Message: "The form was submitted from another site and has been rejected."},
	})
}
