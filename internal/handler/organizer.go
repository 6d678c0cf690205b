// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/imaging"
	"github.com/olegiv/eventix/internal/imgbb"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/service"
	"github.com/olegiv/eventix/internal/session"
	"github.com/olegiv/eventix/internal/util"
)

// OrganizerHandler handles the organizer area: events, ticket categories,
// images, members, statistics and the ticket scanner.
type OrganizerHandler struct {
	base
	listings *service.Listings
	images   *imaging.Processor
	imgbb    *imgbb.Client
}

// NewOrganizerHandler creates a new OrganizerHandler.
func NewOrganizerHandler(client *api.Client, store *session.Store, renderer *render.Renderer,
	listings *service.Listings, images *imaging.Processor, uploader *imgbb.Client) *OrganizerHandler {
	return &OrganizerHandler{
		base:     base{api: client, store: store, renderer: renderer},
		listings: listings,
		images:   images,
		imgbb:    uploader,
	}
}

// recommendationKinds are the recommendations shown on the dashboard.
var recommendationKinds = []api.RecommendationKind{api.RecommendGeneral, api.RecommendLocation, api.RecommendTiming}

type orgDashboard struct {
	Events          []api.Event
	Recommendations map[api.RecommendationKind]api.Recommendation
}

type eventForm struct {
	Event  api.Event
	IsNew  bool
	Action string
	// Uploads reports whether image files can be uploaded.
	Uploads bool
}

type statsPage struct {
	Event api.Event
	Stats *api.EventStats
}

type subscribersPage struct {
	Event         api.Event
	Subscriptions []api.Subscription
	Revenue       int
}

// Dashboard shows the organizer's events and recommendations.
func (h *OrganizerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cred := h.cred(r)

	events, err := h.api.MyEvents(ctx, cred)
	if err != nil {
		h.fail(w, r, err, pageOrgDashboard, "Dashboard", orgDashboard{}, "Your events could not be loaded.")
		return
	}

	data := orgDashboard{Events: events, Recommendations: map[api.RecommendationKind]api.Recommendation{}}
	orgID := middleware.GetUserID(r)
	for _, kind := range recommendationKinds {
		rec, err := h.api.Recommendation(ctx, cred, kind, orgID)
		if err != nil {
			slog.DebugContext(ctx, "recommendation unavailable", "kind", kind, "error", err)
			continue
		}
		data.Recommendations[kind] = rec
	}

	h.page(w, r, pageOrgDashboard, "Dashboard", data)
}

// Events lists the organizer's events.
func (h *OrganizerHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.api.MyEvents(r.Context(), h.cred(r))
	if err != nil {
		h.fail(w, r, err, pageOrgEvents, "My events", []api.Event(nil), "Your events could not be loaded.")
		return
	}
	h.page(w, r, pageOrgEvents, "My events", events)
}

// NewEvent renders the event creation form.
func (h *OrganizerHandler) NewEvent(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageOrgEventForm, "New event", eventForm{IsNew: true, Action: redirectOrgEvents})
}

// CreateEvent handles the event creation form.
func (h *OrganizerHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectOrgEvents+RouteSuffixNew) {
		return
	}
	data := eventForm{IsNew: true, Action: redirectOrgEvents}

	in, msg := eventInputFromForm(r)
	if msg != "" {
		h.pageError(w, r, http.StatusUnprocessableEntity, pageOrgEventForm, "New event", data, msg)
		return
	}

	ev, err := h.api.CreateEvent(r.Context(), h.cred(r), in)
	if err != nil {
		h.fail(w, r, err, pageOrgEventForm, "New event", data, "The event could not be created.")
		return
	}
	h.listings.Forget(r.Context(), 0)

	slog.InfoContext(r.Context(), "event created", "event_id", ev.ID, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectOrgEventEdit, ev.ID),
		"Event created. Add ticket categories so visitors can subscribe.")
}

// EditEvent renders the event form with its ticket categories and images.
func (h *OrganizerHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.event(w, r)
	if !ok {
		return
	}
	h.page(w, r, pageOrgEventForm, "Edit event", eventForm{
		Event:   *ev,
		Action:  fmt.Sprintf(redirectOrgEventID, ev.ID),
		Uploads: h.imgbb.Enabled(),
	})
}

// UpdateEvent handles the event edit form.
func (h *OrganizerHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.event(w, r)
	if !ok {
		return
	}
	editURL := fmt.Sprintf(redirectOrgEventEdit, ev.ID)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}
	data := eventForm{Event: *ev, Action: fmt.Sprintf(redirectOrgEventID, ev.ID), Uploads: h.imgbb.Enabled()}

	in, msg := eventInputFromForm(r)
	if msg != "" {
		h.pageError(w, r, http.StatusUnprocessableEntity, pageOrgEventForm, "Edit event", data, msg)
		return
	}

	if _, err := h.api.UpdateEvent(r.Context(), h.cred(r), ev.ID, in); err != nil {
		h.fail(w, r, err, pageOrgEventForm, "Edit event", data, "The event could not be saved.")
		return
	}
	h.listings.Forget(r.Context(), ev.ID)
	flashSuccess(w, r, h.renderer, editURL, "Event saved.")
}

// DeleteEvent deletes an event.
func (h *OrganizerHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.api.DeleteEvent(r.Context(), h.cred(r), id); err != nil {
		h.failFlash(w, r, err, redirectOrgEvents, "The event could not be deleted.")
		return
	}
	h.listings.Forget(r.Context(), id)

	slog.InfoContext(r.Context(), "event deleted", "event_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectOrgEvents, "Event deleted.")
}

// event loads the event named by the {id} parameter, writing the error
// page when it cannot.
func (h *OrganizerHandler) event(w http.ResponseWriter, r *http.Request) (*api.Event, bool) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return nil, false
	}
	ev, err := h.api.Event(r.Context(), h.cred(r), id)
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			h.notFound(w, r)
			return nil, false
		}
		h.failFlash(w, r, err, redirectOrgEvents, "The event could not be loaded.")
		return nil, false
	}
	return ev, true
}

// eventInputFromForm reads the event form. A non-empty message reports a
// field that could not be parsed.
func eventInputFromForm(r *http.Request) (api.EventInput, string) {
	in := api.EventInput{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Places:      formInt(r, "places", 0),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
		PictureURL:  strings.TrimSpace(r.PostFormValue("picture_url")),
		OrganizerID: middleware.GetUserID(r),
	}

	start, err := parseFormDate(r.PostFormValue("start"))
	if err != nil {
		return in, "Please enter a valid start date."
	}
	end, err := parseFormDate(r.PostFormValue("end"))
	if err != nil {
		return in, "Please enter a valid end date."
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start.Time) {
		return in, "The end date must not be before the start date."
	}
	in.Start, in.End = start, end

	if in.PictureURL != "" {
		if err := util.ValidateImageURL(in.PictureURL); err != nil {
			return in, "Picture URL: " + err.Error() + "."
		}
	}
	return in, ""
}

// parseFormDate parses an <input type="date"> value. Empty is the zero date.
func parseFormDate(v string) (api.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return api.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return api.Date{}, err
	}
	return api.Date{Time: t}, nil
}

// CreateCategory adds a ticket category to an event.
func (h *OrganizerHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	editURL := fmt.Sprintf(redirectOrgEventEdit, id)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	in := api.TicketCategoryInput{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Price:   formInt(r, "price", -1),
		EventID: id,
	}
	if err := h.api.CreateTicketCategory(r.Context(), h.cred(r), in); err != nil {
		h.failFlash(w, r, err, editURL, "The ticket category could not be created.")
		return
	}
	h.listings.Forget(r.Context(), id)
	flashSuccess(w, r, h.renderer, editURL+"#categories", "Ticket category added.")
}

// UpdateCategory edits a ticket category.
func (h *OrganizerHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	categoryID, ok2 := parseIDParam(r, "categoryId")
	if !ok || !ok2 {
		h.notFound(w, r)
		return
	}
	editURL := fmt.Sprintf(redirectOrgEventEdit, id)
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	in := api.TicketCategoryInput{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Price:   formInt(r, "price", -1),
		EventID: id,
	}
	if err := h.api.UpdateTicketCategory(r.Context(), h.cred(r), categoryID, in); err != nil {
		h.failFlash(w, r, err, editURL, "The ticket category could not be saved.")
		return
	}
	h.listings.Forget(r.Context(), id)
	flashSuccess(w, r, h.renderer, editURL+"#categories", "Ticket category saved.")
}

// DeleteCategory removes a ticket category.
func (h *OrganizerHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	categoryID, ok2 := parseIDParam(r, "categoryId")
	if !ok || !ok2 {
		h.notFound(w, r)
		return
	}
	editURL := fmt.Sprintf(redirectOrgEventEdit, id)

	if err := h.api.DeleteTicketCategory(r.Context(), h.cred(r), categoryID); err != nil {
		h.failFlash(w, r, err, editURL, "The ticket category could not be deleted.")
		return
	}
	h.listings.Forget(r.Context(), id)
	flashSuccess(w, r, h.renderer, editURL+"#categories", "Ticket category deleted.")
}

// Stats shows the sales statistics of an event.
func (h *OrganizerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.event(w, r)
	if !ok {
		return
	}
	data := statsPage{Event: *ev}
	stats, err := h.api.EventStats(r.Context(), h.cred(r), ev.ID)
	if err != nil {
		h.fail(w, r, err, pageOrgStats, "Statistics", data, "The statistics could not be loaded.")
		return
	}
	data.Stats = stats
	h.page(w, r, pageOrgStats, "Statistics", data)
}

// Subscribers lists the subscriptions of an event.
func (h *OrganizerHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.event(w, r)
	if !ok {
		return
	}
	data := subscribersPage{Event: *ev}
	subs, err := h.api.EventSubscriptions(r.Context(), h.cred(r), ev.ID)
	if err != nil {
		h.fail(w, r, err, pageOrgSubs, "Subscribers", data, "The subscribers could not be loaded.")
		return
	}
	data.Subscriptions = subs
	for _, s := range subs {
		if s.Status != api.SubscriptionPending {
			data.Revenue += s.Amount
		}
	}
	h.page(w, r, pageOrgSubs, "Subscribers", data)
}

// Members lists the organizer's team.
func (h *OrganizerHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.api.Members(r.Context(), h.cred(r))
	if err != nil {
		h.fail(w, r, err, pageOrgMembers, "Team", []api.Member(nil), "The team could not be loaded.")
		return
	}
	h.page(w, r, pageOrgMembers, "Team", members)
}

// CreateMember adds a team member.
func (h *OrganizerHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectOrgMembers) {
		return
	}
	in := api.MemberInput{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Surname:      strings.TrimSpace(r.PostFormValue("surname")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		InstagramURL: strings.TrimSpace(r.PostFormValue("instagram_url")),
		FacebookURL:  strings.TrimSpace(r.PostFormValue("facebook_url")),
		PictureURL:   strings.TrimSpace(r.PostFormValue("picture_url")),
		Role:         strings.TrimSpace(r.PostFormValue("role")),
	}
	if err := h.api.CreateMember(r.Context(), h.cred(r), in); err != nil {
		h.failFlash(w, r, err, redirectOrgMembers, "The member could not be added.")
		return
	}
	flashSuccess(w, r, h.renderer, redirectOrgMembers, "Member added.")
}

// DeleteMember removes a team member.
func (h *OrganizerHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.api.DeleteMember(r.Context(), h.cred(r), id); err != nil {
		h.failFlash(w, r, err, redirectOrgMembers, "The member could not be removed.")
		return
	}
	flashSuccess(w, r, h.renderer, redirectOrgMembers, "Member removed.")
}
