// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/service"
	"github.com/olegiv/eventix/internal/session"
	"github.com/olegiv/eventix/internal/util"
)

// EventsHandler handles the public event pages and the visitor actions
// on them.
type EventsHandler struct {
	base
	listings *service.Listings
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(client *api.Client, store *session.Store, renderer *render.Renderer, listings *service.Listings) *EventsHandler {
	return &EventsHandler{
		base:     base{api: client, store: store, renderer: renderer},
		listings: listings,
	}
}

// homePage is the data of the event list.
type homePage struct {
	Events   []api.Event
	Trending []api.TrendingEvent
}

// eventPage is the data of the event details page.
type eventPage struct {
	Event    api.Event
	Comments []api.Comment
	Likes    int64
	Liked    bool
	// Notice is an inline success banner.
	Notice string
}

// Home lists the published events.
func (h *EventsHandler) Home(w http.ResponseWriter, r *http.Request) {
	events, err := h.listings.Events(r.Context())
	if err != nil {
		h.logFailure(r, err)
		h.renderer.PageStatus(w, r, statusFor(err), pageHome, render.TemplateData{
			Title: "Events",
			Data:  homePage{},
			Error: api.Message(err, "The events could not be loaded."),
		})
		return
	}

	trending, err := h.listings.Trending(r.Context())
	if err != nil {
		slog.DebugContext(r.Context(), "trending events unavailable", "error", err)
	}

	h.page(w, r, pageHome, "Events", homePage{Events: events, Trending: trending})
}

// Show renders an event. Requests without the canonical slug are
// redirected to it.
func (h *EventsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}

	data, err := h.load(r, id)
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			h.notFound(w, r)
			return
		}
		h.fail(w, r, err, pageEvent, "Event", eventPage{}, "The event could not be loaded.")
		return
	}

	if canonical := util.EventPath(data.Event.ID, data.Event.Title); r.URL.Path != canonical {
		http.Redirect(w, r, canonical, http.StatusMovedPermanently)
		return
	}

	h.page(w, r, pageEvent, data.Event.Title, data)
}

// load fetches an event with its comments and likes. Only the event itself
// is required; the rest degrades to empty.
func (h *EventsHandler) load(r *http.Request, id int64) (eventPage, error) {
	ctx := r.Context()
	ev, err := h.listings.Event(ctx, id)
	if err != nil {
		return eventPage{}, err
	}
	data := eventPage{Event: ev}
	cred := h.cred(r)

	if data.Comments, err = h.api.Comments(ctx, cred, id); err != nil {
		slog.DebugContext(ctx, "comments unavailable", "event_id", id, "error", err)
	}
	if data.Likes, err = h.api.LikeCount(ctx, cred, id); err != nil {
		slog.DebugContext(ctx, "like count unavailable", "event_id", id, "error", err)
	}
	if _, authenticated := middleware.GetUser(r); authenticated {
		if data.Liked, err = h.api.Liked(ctx, cred, id); err != nil {
			slog.DebugContext(ctx, "like status unavailable", "event_id", id, "error", err)
		}
	}
	return data, nil
}

// Subscribe books tickets of one category. A paid category continues on
// the payment page; a free one is confirmed in place.
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	data, err := h.load(r, id)
	if err != nil {
		h.failFlash(w, r, err, RouteRoot, "The event could not be loaded.")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, util.EventPath(id, data.Event.Title)) {
		return
	}

	ticketID, _ := strconv.ParseInt(r.PostFormValue("ticket_id"), 10, 64)
	in := api.SubscriptionInput{
		EventID:  id,
		TicketID: ticketID,
		Places:   formInt(r, "places", 1),
	}

	res, err := h.api.Subscribe(r.Context(), h.cred(r), in)
	if err != nil {
		h.fail(w, r, err, pageEvent, data.Event.Title, data, "Your subscription could not be registered.")
		return
	}

	sub := res.Subscription
	if res.Outcome == api.PaymentRequired {
		amount := sub.Amount
		if amount == 0 {
			amount = int(util.TotalAmount(float64(ticketPrice(data.Event, ticketID)), in.Places))
		}
		slog.InfoContext(r.Context(), "subscription awaiting payment", "subscription_id", sub.ID, "event_id", id)
		http.Redirect(w, r, fmt.Sprintf(redirectPayment, sub.ID, amount), http.StatusSeeOther)
		return
	}

	slog.InfoContext(r.Context(), "free subscription confirmed", "subscription_id", sub.ID, "event_id", id)
	data.Notice = "Your subscription is confirmed. Your tickets are in My subscriptions."
	h.page(w, r, pageEvent, data.Event.Title, data)
}

// ticketPrice returns the price of a ticket category of ev, 0 when unknown.
func ticketPrice(ev api.Event, ticketID int64) int {
	for _, c := range ev.Categories {
		if c.ID == ticketID {
			return c.Price
		}
	}
	return 0
}

// AddComment posts a comment or a reply.
func (h *EventsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	back := util.EventPath(id, "")
	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	in := api.CommentInput{Content: strings.TrimSpace(r.PostFormValue("content"))}
	if parent, err := strconv.ParseInt(r.PostFormValue("parent_id"), 10, 64); err == nil && parent > 0 {
		in.ParentID = &parent
	}

	if _, err := h.api.AddComment(r.Context(), h.cred(r), id, in); err != nil {
		h.failFlash(w, r, err, back, "Your comment could not be posted.")
		return
	}
	flashSuccess(w, r, h.renderer, back+"#comments", "Your comment has been posted.")
}

// EditComment changes the text of one of the user's comments.
func (h *EventsHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteRoot) {
		return
	}
	back := commentBack(r)

	in := api.CommentInput{Content: strings.TrimSpace(r.PostFormValue("content"))}
	if err := h.api.EditComment(r.Context(), h.cred(r), id, in); err != nil {
		h.failFlash(w, r, err, back, "Your comment could not be updated.")
		return
	}
	flashSuccess(w, r, h.renderer, back+"#comments", "Your comment has been updated.")
}

// DeleteComment removes one of the user's comments.
func (h *EventsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteRoot) {
		return
	}
	back := commentBack(r)

	if err := h.api.DeleteComment(r.Context(), h.cred(r), id); err != nil {
		h.failFlash(w, r, err, back, "Your comment could not be deleted.")
		return
	}
	flashSuccess(w, r, h.renderer, back+"#comments", "Your comment has been deleted.")
}

// ToggleLike likes the event, or unlikes it when already liked.
func (h *EventsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	ctx := r.Context()
	cred := h.cred(r)
	back := util.EventPath(id, "")

	liked, err := h.api.Liked(ctx, cred, id)
	if err != nil {
		h.failFlash(w, r, err, back, "Your like could not be saved.")
		return
	}
	if liked {
		err = h.api.Unlike(ctx, cred, id)
	} else {
		err = h.api.Like(ctx, cred, id)
	}
	if err != nil {
		h.failFlash(w, r, err, back, "Your like could not be saved.")
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// commentBack returns the page of the event a comment form was posted
// from, or the home page.
func commentBack(r *http.Request) string {
	eventID, err := strconv.ParseInt(r.PostFormValue("event_id"), 10, 64)
	if err != nil || eventID <= 0 {
		return RouteRoot
	}
	return util.EventPath(eventID, "")
}
