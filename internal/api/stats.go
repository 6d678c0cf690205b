// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
)

// RecommendationKind selects an organizer recommendation.
type RecommendationKind string

const (
	RecommendLocation RecommendationKind = "location"
	RecommendTiming   RecommendationKind = "timing"
	RecommendGeneral  RecommendationKind = "general"
)

// EventStats returns sales statistics of one event.
func (c *Client) EventStats(ctx context.Context, cred string, eventID int64) (*EventStats, error) {
	var out EventStats
	if _, err := c.do(ctx, http.MethodGet, pathID("/api/stats/events/%d", eventID), cred, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GlobalStatus returns the number of events per status.
func (c *Client) GlobalStatus(ctx context.Context, cred string) (map[string]int64, error) {
	out := map[string]int64{}
	_, err := c.do(ctx, http.MethodGet, "/api/stats/global/status", cred, nil, &out)
	return out, err
}

// Recommendation returns a recommendation for an organizer.
func (c *Client) Recommendation(ctx context.Context, cred string, kind RecommendationKind, organizerID int64) (Recommendation, error) {
	out := Recommendation{}
	path := fmt.Sprintf("/api/stats/recommendation/%s/%d", kind, organizerID)
	_, err := c.do(ctx, http.MethodGet, path, cred, nil, &out)
	return out, err
}

// Trending returns events ranked by occupancy.
func (c *Client) Trending(ctx context.Context, cred string) ([]TrendingEvent, error) {
	var out []TrendingEvent
	_, err := c.do(ctx, http.MethodGet, "/api/stats/recommendation/trending", cred, nil, &out)
	return out, err
}

// BestOrganizers returns the best organizer recommendations.
func (c *Client) BestOrganizers(ctx context.Context, cred string) ([]Recommendation, error) {
	var out []Recommendation
	_, err := c.do(ctx, http.MethodGet, "/api/stats/recommendation/best-organizer", cred, nil, &out)
	return out, err
}
