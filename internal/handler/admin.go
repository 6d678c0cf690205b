// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers of the web frontend: the
// public event pages, authentication, the visitor, organizer and admin
// areas, and health checks.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/cache"
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/scheduler"
	"github.com/olegiv/eventix/internal/service"
	"github.com/olegiv/eventix/internal/session"
)

// adminPageSize is the number of rows of the paged admin lists.
const adminPageSize = 20

// AdminHandler handles the moderation area.
type AdminHandler struct {
	base
	listings  *service.Listings
	scheduler *scheduler.Scheduler
	cache     cache.Cacher
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(client *api.Client, store *session.Store, renderer *render.Renderer,
	listings *service.Listings, sched *scheduler.Scheduler, c cache.Cacher) *AdminHandler {
	return &AdminHandler{
		base:      base{api: client, store: store, renderer: renderer},
		listings:  listings,
		scheduler: sched,
		cache:     c,
	}
}

// DashboardData holds the admin dashboard.
type DashboardData struct {
	Stats          *api.DashboardStats
	EventsByStatus map[string]int64
	BestOrganizers []api.Recommendation
	Jobs           []scheduler.JobInfo
	Cache          *cache.Stats
}

type usersPage struct {
	Users  []api.User
	Roles  []identity.Role
	SelfID int64
}

type adminEventsPage struct {
	Events     []api.AdminEvent
	Statuses   []api.EventStatus
	Pagination Pagination
}

type adminCommentsPage struct {
	Comments   []api.Comment
	Pagination Pagination
}

// Dashboard renders the platform totals, the scheduled jobs and the cache.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cred := h.cred(r)

	stats, err := h.api.Dashboard(ctx, cred)
	if err != nil {
		h.fail(w, r, err, pageAdminDash, "Dashboard", DashboardData{}, "The dashboard could not be loaded.")
		return
	}
	data := DashboardData{Stats: stats}

	if data.EventsByStatus, err = h.api.GlobalStatus(ctx, cred); err != nil {
		slog.DebugContext(ctx, "event status totals unavailable", "error", err)
	}
	if data.BestOrganizers, err = h.api.BestOrganizers(ctx, cred); err != nil {
		slog.DebugContext(ctx, "best organizers unavailable", "error", err)
	}
	if h.scheduler != nil {
		data.Jobs = h.scheduler.List()
	}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		s := sp.Stats()
		data.Cache = &s
	}

	h.page(w, r, pageAdminDash, "Dashboard", data)
}

// Users lists every account.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	data := usersPage{Roles: identity.Roles, SelfID: middleware.GetUserID(r)}
	users, err := h.api.Users(r.Context(), h.cred(r))
	if err != nil {
		h.fail(w, r, err, pageAdminUsers, "Users", data, "The users could not be loaded.")
		return
	}
	data.Users = users
	h.page(w, r, pageAdminUsers, "Users", data)
}

// SetUserRole changes the role of an account.
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.otherUser(w, r)
	if !ok {
		return
	}
	role, err := identity.ParseRole(r.PostFormValue("role"))
	if err != nil || role == identity.RoleAnonymous {
		flashError(w, r, h.renderer, redirectAdminUsers, "Unknown role.")
		return
	}

	if err := h.api.SetUserRole(r.Context(), h.cred(r), id, role); err != nil {
		h.failFlash(w, r, err, redirectAdminUsers, "The role could not be changed.")
		return
	}
	slog.InfoContext(r.Context(), "user role changed", "target_id", id, "role", role, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Role changed to "+role.Label()+".")
}

// SetUserStatus enables or disables an account.
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.otherUser(w, r)
	if !ok {
		return
	}
	enabled, err := strconv.ParseBool(r.PostFormValue("enabled"))
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid form data")
		return
	}

	if err := h.api.SetUserEnabled(r.Context(), h.cred(r), id, enabled); err != nil {
		h.failFlash(w, r, err, redirectAdminUsers, "The account status could not be changed.")
		return
	}
	slog.InfoContext(r.Context(), "user status changed", "target_id", id, "enabled", enabled, "user_id", middleware.GetUserID(r))
	msg := "Account disabled."
	if enabled {
		msg = "Account enabled."
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, msg)
}

// DeleteUser deletes an account.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.otherUser(w, r)
	if !ok {
		return
	}
	if err := h.api.DeleteUser(r.Context(), h.cred(r), id); err != nil {
		h.failFlash(w, r, err, redirectAdminUsers, "The account could not be deleted.")
		return
	}
	slog.InfoContext(r.Context(), "user deleted", "target_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Account deleted.")
}

// otherUser reads the {id} of an account action and refuses actions on
// the admin's own account.
func (h *AdminHandler) otherUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return 0, false
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return 0, false
	}
	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot change your own account here.")
		return 0, false
	}
	return id, true
}

// Events lists events for moderation, one page at a time.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	data := adminEventsPage{Statuses: api.EventStatuses}

	res, err := h.api.AdminEvents(r.Context(), h.cred(r), page-1, adminPageSize)
	if err != nil {
		h.fail(w, r, err, pageAdminEvents, "Events", data, "The events could not be loaded.")
		return
	}
	data.Events = res.Content
	data.Pagination = BuildPagination(page, res.TotalPages, redirectAdminEvents, r.URL.Query())
	h.page(w, r, pageAdminEvents, "Events", data)
}

// SetEventStatus changes the status of an event.
func (h *AdminHandler) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	id, back, ok := h.moderated(w, r, redirectAdminEvents)
	if !ok {
		return
	}
	status := api.EventStatus(r.PostFormValue("status"))
	if !knownEventStatus(status) {
		flashError(w, r, h.renderer, back, "Unknown event status.")
		return
	}

	if err := h.api.SetEventStatus(r.Context(), h.cred(r), id, status); err != nil {
		h.failFlash(w, r, err, back, "The event status could not be changed.")
		return
	}
	h.listings.Forget(r.Context(), id)
	flashSuccess(w, r, h.renderer, back, "Event status changed to "+status.Label()+".")
}

// SetEventFeatured features or unfeatures an event.
func (h *AdminHandler) SetEventFeatured(w http.ResponseWriter, r *http.Request) {
	id, back, ok := h.moderated(w, r, redirectAdminEvents)
	if !ok {
		return
	}
	featured, err := strconv.ParseBool(r.PostFormValue("featured"))
	if err != nil {
		flashError(w, r, h.renderer, back, "Invalid form data")
		return
	}

	if err := h.api.SetEventFeatured(r.Context(), h.cred(r), id, featured); err != nil {
		h.failFlash(w, r, err, back, "The event could not be updated.")
		return
	}
	h.listings.Forget(r.Context(), id)
	msg := "Event removed from featured."
	if featured {
		msg = "Event featured."
	}
	flashSuccess(w, r, h.renderer, back, msg)
}

// Comments lists comments for moderation, one page at a time.
func (h *AdminHandler) Comments(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)

	res, err := h.api.AdminComments(r.Context(), h.cred(r), page-1, adminPageSize)
	if err != nil {
		h.fail(w, r, err, pageAdminComments, "Comments", adminCommentsPage{}, "The comments could not be loaded.")
		return
	}
	h.page(w, r, pageAdminComments, "Comments", adminCommentsPage{
		Comments:   res.Content,
		Pagination: BuildPagination(page, res.TotalPages, redirectAdminComments, r.URL.Query()),
	})
}

// SetCommentStatus hides or shows a comment.
func (h *AdminHandler) SetCommentStatus(w http.ResponseWriter, r *http.Request) {
	id, back, ok := h.moderated(w, r, redirectAdminComments)
	if !ok {
		return
	}
	status := api.CommentStatus(r.PostFormValue("status"))
	if status != api.CommentVisible && status != api.CommentHidden {
		flashError(w, r, h.renderer, back, "Unknown comment status.")
		return
	}

	if err := h.api.SetCommentStatus(r.Context(), h.cred(r), id, status); err != nil {
		h.failFlash(w, r, err, back, "The comment could not be updated.")
		return
	}
	msg := "Comment hidden."
	if status == api.CommentVisible {
		msg = "Comment visible again."
	}
	flashSuccess(w, r, h.renderer, back, msg)
}

// moderated reads the {id} and form of a moderation action. The action
// returns to the list page it was posted from.
func (h *AdminHandler) moderated(w http.ResponseWriter, r *http.Request, list string) (int64, string, bool) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return 0, "", false
	}
	if !parseFormOrRedirect(w, r, h.renderer, list) {
		return 0, "", false
	}
	back := list
	if page := formInt(r, "page", 0); page > 1 {
		back = fmt.Sprintf("%s?page=%d", list, page)
	}
	return id, back, true
}

func knownEventStatus(s api.EventStatus) bool {
	for _, known := range api.EventStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// WarmCache runs the listing warm-up job now.
func (h *AdminHandler) WarmCache(w http.ResponseWriter, r *http.Request) {
	err := h.scheduler.TriggerNow(WarmJobName)
	switch {
	case errors.Is(err, scheduler.ErrBusy):
		flashAndRedirect(w, r, h.renderer, redirectAdmin, "The cache is already being refreshed.", flashTypeInfo)
	case err != nil:
		slog.ErrorContext(r.Context(), "cache warm-up failed", "error", err)
		flashError(w, r, h.renderer, redirectAdmin, "The cache could not be refreshed.")
	default:
		flashSuccess(w, r, h.renderer, redirectAdmin, "The event listings have been refreshed.")
	}
}

// ClearCache drops the cached listings.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.Purge(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "cache clear failed", "error", err)
		flashError(w, r, h.renderer, redirectAdmin, "The cache could not be cleared.")
		return
	}
	slog.InfoContext(r.Context(), "listing cache cleared", "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdmin, "The cache has been cleared.")
}
