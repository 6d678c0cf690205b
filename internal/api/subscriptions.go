// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Subscribe requests tickets. The backend answers 200 for a free category,
// confirmed on the spot, and 201 for a paid one awaiting payment.
func (c *Client) Subscribe(ctx context.Context, cred string, in SubscriptionInput) (*SubscribeResult, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var sub Subscription
	status, err := c.do(ctx, http.MethodPost, "/subscription", cred, in, &sub)
	if err != nil {
		return nil, err
	}

	res := &SubscribeResult{Outcome: SubscriptionConfirmed, Subscription: sub}
	if status == http.StatusCreated {
		res.Outcome = PaymentRequired
	}
	return res, nil
}

// MySubscriptions lists the calling visitor's tickets.
func (c *Client) MySubscriptions(ctx context.Context, cred string) ([]Subscription, error) {
	var out []Subscription
	_, err := c.do(ctx, http.MethodGet, "/subscription/visitor/me", cred, nil, &out)
	return out, err
}

// EventSubscriptions lists the subscribers of an event.
func (c *Client) EventSubscriptions(ctx context.Context, cred string, eventID int64) ([]Subscription, error) {
	var out []Subscription
	_, err := c.do(ctx, http.MethodGet, pathID("/subscription/event/%d", eventID), cred, nil, &out)
	return out, err
}

// ConfirmPayment settles a subscription awaiting payment.
func (c *Client) ConfirmPayment(ctx context.Context, cred string, subscriptionID int64) error {
	_, err := c.do(ctx, http.MethodPost, pathID("/subscription/%d/confirm-payment", subscriptionID), cred, nil, nil)
	return err
}

// ValidateTicket marks a ticket as used at the door. Unknown and already
// used codes are verdicts, not errors.
func (c *Client) ValidateTicket(ctx context.Context, cred, code string) (*TicketCheck, error) {
	if code == "" {
		return &TicketCheck{Verdict: TicketInvalid, Message: "This ticket code is invalid."}, nil
	}

	var sub Subscription
	_, err := c.do(ctx, http.MethodPost, "/subscription/validate?"+url.Values{"code": {code}}.Encode(), cred,
		map[string]string{"code": code}, &sub)

	var apiErr *Error
	switch {
	case err == nil:
		return &TicketCheck{Verdict: TicketValid, Subscription: &sub}, nil
	case errors.As(err, &apiErr) && apiErr.Kind == KindNotFound:
		return &TicketCheck{Verdict: TicketInvalid, Message: Message(err, "This ticket code is invalid.")}, nil
	case errors.As(err, &apiErr) && apiErr.Kind == KindConflict:
		return &TicketCheck{Verdict: TicketAlreadyUsed, Message: Message(err, "This ticket has already been used.")}, nil
	default:
		return nil, err
	}
}
