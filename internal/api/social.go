// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Comments lists the top-level comments of an event with their replies.
func (c *Client) Comments(ctx context.Context, cred string, eventID int64) ([]Comment, error) {
	var out []Comment
	_, err := c.do(ctx, http.MethodGet, pathID("/api/events/%d/comments", eventID), cred, nil, &out)
	return out, err
}

// AddComment posts a comment or a reply.
func (c *Client) AddComment(ctx context.Context, cred string, eventID int64, in CommentInput) (*Comment, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	var out Comment
	if _, err := c.do(ctx, http.MethodPost, pathID("/api/events/%d/comments", eventID), cred, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditComment changes a comment's content.
func (c *Client) EditComment(ctx context.Context, cred string, id int64, in CommentInput) error {
	if err := c.Validate(in); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPut, pathID("/api/comments/%d", id), cred, in, nil)
	return err
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, cred string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/api/comments/%d", id), cred, nil, nil)
	return err
}

// Like likes an event.
func (c *Client) Like(ctx context.Context, cred string, eventID int64) error {
	_, err := c.do(ctx, http.MethodPost, pathID("/api/events/%d/likes", eventID), cred, nil, nil)
	return err
}

// Unlike withdraws a like.
func (c *Client) Unlike(ctx context.Context, cred string, eventID int64) error {
	_, err := c.do(ctx, http.MethodDelete, pathID("/api/events/%d/likes", eventID), cred, nil, nil)
	return err
}

// LikeCount returns how many users like an event.
func (c *Client) LikeCount(ctx context.Context, cred string, eventID int64) (int64, error) {
	var out likeCount
	if _, err := c.do(ctx, http.MethodGet, pathID("/api/events/%d/likes/count", eventID), cred, nil, &out); err != nil {
		return 0, err
	}
	return max(out.Count, out.LikeCount), nil
}

// Liked reports whether the caller likes an event.
func (c *Client) Liked(ctx context.Context, cred string, eventID int64) (bool, error) {
	var out bool
	_, err := c.do(ctx, http.MethodGet, pathID("/api/events/%d/likes/status", eventID), cred, nil, &out)
	return out, err
}
