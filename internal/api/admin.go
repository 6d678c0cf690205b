// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/olegiv/eventix/internal/identity"
)

// DefaultPageSize is the moderation list page size.
const DefaultPageSize = 10

// Dashboard returns the platform totals.
func (c *Client) Dashboard(ctx context.Context, cred string) (*DashboardStats, error) {
	var out DashboardStats
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/stats/dashboard", cred, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists every account.
func (c *Client) Users(ctx context.Context, cred string) ([]User, error) {
	var out []User
	_, err := c.do(ctx, http.MethodGet, "/api/admin/users", cred, nil, &out)
	return out, err
}

// SetUserRole changes an account's role.
func (c *Client) SetUserRole(ctx context.Context, cred string, userID int64, role identity.Role) error {
	if role == identity.RoleAnonymous || !role.IsValid() {
		return &Error{Kind: KindValidation, Message: "Unknown role."}
	}
	_, err := c.do(ctx, http.MethodPut, pathID("/api/admin/users/%d/role", userID), cred, string(role), nil)
	return err
}

// SetUserEnabled activates or suspends an account.
func (c *Client) SetUserEnabled(ctx context.Context, cred string, userID int64, enabled bool) error {
	_, err := c.do(ctx, http.MethodPut, pathID("/api/admin/users/%d/status", userID), cred, enabled, nil)
	return err
}

// DeleteUser deletes an account.
func (c *Client) DeleteUser(ctx context.Context, cred string, userID int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/api/admin/users/%d", userID), cred, nil, nil)
	return err
}

// AdminEvents returns one page of events for moderation.
func (c *Client) AdminEvents(ctx context.Context, cred string, page, size int) (*Page[AdminEvent], error) {
	var out Page[AdminEvent]
	if _, err := c.do(ctx, http.MethodGet, pageQuery("/api/admin/events", page, size), cred, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetEventStatus changes an event's status.
func (c *Client) SetEventStatus(ctx context.Context, cred string, eventID int64, status EventStatus) error {
	_, err := c.do(ctx, http.MethodPut, pathID("/api/admin/events/%d/status", eventID), cred, string(status), nil)
	return err
}

// SetEventFeatured pins or unpins an event on the home page.
func (c *Client) SetEventFeatured(ctx context.Context, cred string, eventID int64, featured bool) error {
	_, err := c.do(ctx, http.MethodPut, pathID("/api/admin/events/%d/featured", eventID), cred, featured, nil)
	return err
}

// AdminComments returns one page of comments for moderation.
func (c *Client) AdminComments(ctx context.Context, cred string, page, size int) (*Page[Comment], error) {
	var out Page[Comment]
	if _, err := c.do(ctx, http.MethodGet, pageQuery("/api/admin/comments", page, size), cred, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCommentStatus shows or hides a comment.
func (c *Client) SetCommentStatus(ctx context.Context, cred string, commentID int64, status CommentStatus) error {
	_, err := c.do(ctx, http.MethodPut, pathID("/api/admin/comments/%d/status", commentID), cred, string(status), nil)
	return err
}

func pageQuery(path string, page, size int) string {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return fmt.Sprintf("%s?page=%d&size=%d", path, page, size)
}
