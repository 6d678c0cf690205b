// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/session"
)

// ProfileHandler handles the account page.
type ProfileHandler struct {
	base
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(client *api.Client, store *session.Store, renderer *render.Renderer) *ProfileHandler {
	return &ProfileHandler{base: base{api: client, store: store, renderer: renderer}}
}

type profilePage struct {
	Profile   *api.Profile
	Organizer bool
}

// Show renders the current user's profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	data := profilePage{Organizer: isOrganizer(r)}
	p, err := h.api.Me(r.Context(), h.cred(r))
	if err != nil {
		h.fail(w, r, err, pageProfile, "My profile", data, "Your profile could not be loaded.")
		return
	}
	data.Profile = p
	h.page(w, r, pageProfile, "My profile", data)
}

// Update saves the profile form.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteProfile) {
		return
	}
	data := profilePage{Organizer: isOrganizer(r)}

	in := api.ProfileUpdate{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Phone:      strings.TrimSpace(r.PostFormValue("phone")),
		Surname:    strings.TrimSpace(r.PostFormValue("surname")),
		City:       strings.TrimSpace(r.PostFormValue("city")),
		PictureURL: strings.TrimSpace(r.PostFormValue("picture_url")),
	}
	if data.Organizer {
		in.YearsActive = formInt(r, "years_active", 0)
		in.InstagramURL = strings.TrimSpace(r.PostFormValue("instagram_url"))
		in.FacebookURL = strings.TrimSpace(r.PostFormValue("facebook_url"))
		in.WhatsappURL = strings.TrimSpace(r.PostFormValue("whatsapp_url"))
	}

	p, err := h.api.UpdateProfile(r.Context(), h.cred(r), in)
	if err != nil {
		h.fail(w, r, err, pageProfile, "My profile", data, "Your profile could not be saved.")
		return
	}

	// The backend may have changed the role or email; keep the session in step.
	if id, err := api.IdentityOf(p); err == nil {
		h.store.SetIdentity(r.Context(), id)
	}
	flashSuccess(w, r, h.renderer, RouteProfile, "Your profile has been saved.")
}

func isOrganizer(r *http.Request) bool {
	id, ok := middleware.GetUser(r)
	return ok && id.Role == identity.RoleOrganizer
}
