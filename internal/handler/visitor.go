// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/middleware"
	"github.com/olegiv/eventix/internal/qr"
	"github.com/olegiv/eventix/internal/render"
	"github.com/olegiv/eventix/internal/session"
	"github.com/olegiv/eventix/internal/util"
)

// ticketQRMaxAge is how long browsers may keep a ticket QR image.
const ticketQRMaxAge = 86400

// ticketCodePattern matches the ticket codes issued by the backend.
var ticketCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// VisitorHandler handles the visitor's tickets and payments.
type VisitorHandler struct {
	base
}

// NewVisitorHandler creates a new VisitorHandler.
func NewVisitorHandler(client *api.Client, store *session.Store, renderer *render.Renderer) *VisitorHandler {
	return &VisitorHandler{base: base{api: client, store: store, renderer: renderer}}
}

// paymentPage is the data of the payment simulation page.
type paymentPage struct {
	SubscriptionID int64
	Amount         int
	// Formatted is the amount as shown to the user, "1 500 CFA".
	Formatted string
}

// MySubscriptions lists the user's tickets.
func (h *VisitorHandler) MySubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.api.MySubscriptions(r.Context(), h.cred(r))
	if err != nil {
		h.fail(w, r, err, pageSubscriptions, "My subscriptions", []api.Subscription(nil), "Your subscriptions could not be loaded.")
		return
	}
	h.page(w, r, pageSubscriptions, "My subscriptions", subs)
}

// TicketQR serves the QR code of a ticket code as a PNG.
func (h *VisitorHandler) TicketQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !ticketCodePattern.MatchString(code) {
		http.NotFound(w, r)
		return
	}

	png, err := qr.PNG(code, qr.DefaultSize)
	if err != nil {
		logAndInternalError(w, r, "encoding ticket QR code", "error", err)
		return
	}

	w.Header().Set(HeaderContentType, "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

// PaymentForm renders the payment simulation of a pending subscription.
func (h *VisitorHandler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	amount, err := strconv.Atoi(r.URL.Query().Get("amount"))
	if err != nil || amount < 0 {
		amount = 0
	}
	h.page(w, r, pagePayment, "Payment", paymentPage{
		SubscriptionID: id,
		Amount:         amount,
		Formatted:      util.FormatAmount(float64(amount)),
	})
}

// ConfirmPayment confirms the payment of a pending subscription.
func (h *VisitorHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectMySubscriptions) {
		return
	}
	amount := formInt(r, "amount", 0)

	if err := h.api.ConfirmPayment(r.Context(), h.cred(r), id); err != nil {
		h.fail(w, r, err, pagePayment, "Payment", paymentPage{
			SubscriptionID: id,
			Amount:         amount,
			Formatted:      util.FormatAmount(float64(amount)),
		}, "The payment could not be confirmed.")
		return
	}

	slog.InfoContext(r.Context(), "payment confirmed", "subscription_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectMySubscriptions,
		fmt.Sprintf("Payment of %s confirmed. Your tickets are ready.", util.FormatAmount(float64(amount))))
}
