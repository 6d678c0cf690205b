// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Events lists public events.
func (c *Client) Events(ctx context.Context, cred string) ([]Event, error) {
	var out []Event
	_, err := c.do(ctx, http.MethodGet, "/event", cred, nil, &out)
	return out, err
}

// Event returns one event with its ticket categories.
func (c *Client) Event(ctx context.Context, cred string, id int64) (*Event, error) {
	var out Event
	if _, err := c.do(ctx, http.MethodGet, pathID("/event/%d", id), cred, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyEvents lists the calling organizer's events.
func (c *Client) MyEvents(ctx context.Context, cred string) ([]Event, error) {
	var out []Event
	_, err := c.do(ctx, http.MethodGet, "/event/organizer/me", cred, nil, &out)
	return out, err
}

// CreateEvent creates an event owned by the calling organizer.
func (c *Client) CreateEvent(ctx context.Context, cred string, in EventInput) (*Event, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out Event
	if _, err := c.do(ctx, http.MethodPost, "/event", cred, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent replaces an event.
func (c *Client) UpdateEvent(ctx context.Context, cred string, id int64, in EventInput) (*Event, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out Event
	if _, err := c.do(ctx, http.MethodPut, pathID("/event/%d", id), cred, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, cred string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/event/%d", id), cred, nil, nil)
	return err
}

// CreateTicketCategory adds a ticket category to an event.
func (c *Client) CreateTicketCategory(ctx context.Context, cred string, in TicketCategoryInput) error {
	if err := c.Validate(in); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/ticket", cred, in, nil)
	return err
}

// UpdateTicketCategory edits a ticket category.
func (c *Client) UpdateTicketCategory(ctx context.Context, cred string, id int64, in TicketCategoryInput) error {
	if err := c.Validate(in); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPut, pathID("/ticket/%d", id), cred, in, nil)
	return err
}

// DeleteTicketCategory removes a ticket category.
func (c *Client) DeleteTicketCategory(ctx context.Context, cred string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/ticket/%d", id), cred, nil, nil)
	return err
}

// AddImage attaches an already hosted image to an event.
func (c *Client) AddImage(ctx context.Context, cred string, eventID int64, imageURL string) error {
	_, err := c.do(ctx, http.MethodPost, "/image", cred, Image{URL: imageURL, EventID: eventID}, nil)
	return err
}

// DeleteImage detaches an image.
func (c *Client) DeleteImage(ctx context.Context, cred string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/image/%d", id), cred, nil, nil)
	return err
}

// Members lists the calling organizer's team.
func (c *Client) Members(ctx context.Context, cred string) ([]Member, error) {
	var out []Member
	_, err := c.do(ctx, http.MethodGet, "/member", cred, nil, &out)
	return out, err
}

// CreateMember adds a team member.
func (c *Client) CreateMember(ctx context.Context, cred string, in MemberInput) error {
	if err := c.Validate(in); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/member", cred, in, nil)
	return err
}

// DeleteMember removes a team member.
func (c *Client) DeleteMember(ctx context.Context, cred string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/member/%d", id), cred, nil, nil)
	return err
}
