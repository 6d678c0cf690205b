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
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/session"
)

// AuthHandler handles login, logout and registration.
type AuthHandler struct {
	base
	boot            *session.Bootstrapper
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(client *api.Client, store *session.Store, boot *session.Bootstrapper, renderer *render.Renderer, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		base:            base{api: client, store: store, renderer: renderer},
		boot:            boot,
		loginProtection: lp,
	}
}

// loginData is the data of the login page.
type loginData struct {
	Next string
}

// registerData is the data of the registration page.
type registerData struct {
	Organizer bool
	Action    string
}

// homeFor returns the landing page of a role.
func homeFor(role identity.Role) string {
	switch role {
	case identity.RoleOrganizer:
		return redirectOrganizer
	case identity.RoleAdmin:
		return redirectAdmin
	default:
		return RouteRoot
	}
}

// LoginForm renders the login page. Authenticated users go to their landing page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if id, ok := middleware.GetUser(r); ok {
		http.Redirect(w, r, homeFor(id.Role), http.StatusSeeOther)
		return
	}
	h.page(w, r, pageLogin, "Log in", loginData{Next: middleware.SafeNext(r.URL.Query().Get("next"))})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	data := loginData{Next: middleware.SafeNext(r.PostFormValue("next"))}

	if email == "" || password == "" {
		h.pageError(w, r, http.StatusUnprocessableEntity, pageLogin, "Log in", data, "Email and password are required.")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "email", email)
			h.pageError(w, r, http.StatusTooManyRequests, pageLogin, "Log in", data,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	cred, err := h.api.Login(r.Context(), email, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			h.loginFailed(w, r, email, data)
			return
		}
		h.logFailure(r, err)
		h.pageError(w, r, statusFor(err), pageLogin, "Log in", data, api.Message(err, "Login failed. Please try again."))
		return
	}

	id, err := h.api.WhoAmI(r.Context(), cred)
	if err != nil {
		slog.ErrorContext(r.Context(), "login: reading profile failed", "error", err)
		h.pageError(w, r, statusFor(err), pageLogin, "Log in", data, "Your account could not be loaded. Please try again.")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.boot.Renew(r.Context()); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}
	h.store.SetCredential(r.Context(), cred)
	h.store.SetIdentity(r.Context(), id)

	slog.InfoContext(r.Context(), "user logged in", "user_id", id.ID, "role", id.Role)

	next := data.Next
	if next == RouteRoot {
		next = homeFor(id.Role)
	}
	flashAndRedirect(w, r, h.renderer, next, "Welcome back!", flashTypeSuccess)
}

// loginFailed records a rejected login and re-renders the form.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string, data loginData) {
	slog.DebugContext(r.Context(), "login rejected by backend", "email", email)
	msg := "Invalid email or password."
	status := http.StatusUnauthorized

	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			msg = fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration))
			status = http.StatusTooManyRequests
		} else if remaining := h.loginProtection.GetRemainingAttempts(email); remaining <= 3 && remaining > 0 {
			msg = fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining)
		}
	}
	h.pageError(w, r, status, pageLogin, "Log in", data, msg)
}

// Logout ends the backend session and resolves the browser session as
// logged out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(r)

	if cred := h.cred(r); cred != "" {
		if err := h.api.Logout(ctx, cred); err != nil {
			slog.DebugContext(ctx, "backend logout failed", "error", err)
		}
	}

	h.store.ClearIdentity(ctx)
	h.store.SetCredential(ctx, "")
	if err := h.boot.Renew(ctx); err != nil {
		slog.ErrorContext(ctx, "session renewal error", "error", err)
	}

	slog.InfoContext(ctx, "user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out.", flashTypeInfo)
}

// RegisterVisitorForm renders the visitor sign-up page.
func (h *AuthHandler) RegisterVisitorForm(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageRegister, "Create a visitor account", registerData{Action: RouteRegisterVisitor})
}

// RegisterOrganizerForm renders the organizer sign-up page.
func (h *AuthHandler) RegisterOrganizerForm(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, pageRegister, "Create an organizer account", registerData{Organizer: true, Action: RouteRegisterOrganizer})
}

// RegisterVisitor handles the visitor sign-up form.
func (h *AuthHandler) RegisterVisitor(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, false)
}

// RegisterOrganizer handles the organizer sign-up form.
func (h *AuthHandler) RegisterOrganizer(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, true)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, organizer bool) {
	data := registerData{Organizer: organizer, Action: RouteRegisterVisitor}
	title := "Create a visitor account"
	if organizer {
		data.Action = RouteRegisterOrganizer
		title = "Create an organizer account"
	}
	if !parseFormOrRedirect(w, r, h.renderer, data.Action) {
		return
	}

	in := api.Registration{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Surname:  strings.TrimSpace(r.PostFormValue("surname")),
		City:     strings.TrimSpace(r.PostFormValue("city")),
	}
	if organizer {
		in.YearsActive = formInt(r, "years_active", 0)
		in.InstagramURL = strings.TrimSpace(r.PostFormValue("instagram_url"))
		in.FacebookURL = strings.TrimSpace(r.PostFormValue("facebook_url"))
		in.WhatsappURL = strings.TrimSpace(r.PostFormValue("whatsapp_url"))
	}

	if in.Password != r.PostFormValue("password_confirm") {
		h.pageError(w, r, http.StatusUnprocessableEntity, pageRegister, title, data, "Passwords do not match.")
		return
	}

	var err error
	if organizer {
		err = h.api.RegisterOrganizer(r.Context(), in)
	} else {
		err = h.api.RegisterVisitor(r.Context(), in)
	}
	if err != nil {
		h.fail(w, r, err, pageRegister, title, data, "Registration failed. Please try again.")
		return
	}

	slog.InfoContext(r.Context(), "account registered", "organizer", organizer)
	flashSuccess(w, r, h.renderer, redirectLogin, "Your account has been created. You can now log in.")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
