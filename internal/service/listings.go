// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the cached read paths shared by the public pages.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/cache"
)

// ListingSource is the part of the backend client used for public listings.
type ListingSource interface {
	Events(ctx context.Context, cred string) ([]api.Event, error)
	Event(ctx context.Context, cred string, id int64) (*api.Event, error)
	Trending(ctx context.Context, cred string) ([]api.TrendingEvent, error)
}

const (
	keyAll      = "all"
	keyTrending = "trending"
)

// Listings serves the public event listings through the shared cache.
// Listings are identical for every visitor, so they are fetched without a
// backend credential.
type Listings struct {
	source   ListingSource
	events   *cache.TypedCache[[]api.Event]
	details  *cache.TypedCache[api.Event]
	trending *cache.TypedCache[[]api.TrendingEvent]
	logger   *slog.Logger
}

// NewListings creates the listing service.
func NewListings(source ListingSource, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *Listings {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listings{
		source:   source,
		events:   cache.NewTypedCache[[]api.Event](c, "events:", ttl),
		details:  cache.NewTypedCache[api.Event](c, "event:", ttl),
		trending: cache.NewTypedCache[[]api.TrendingEvent](c, "trending:", ttl),
		logger:   logger,
	}
}

// Events returns every public event.
func (l *Listings) Events(ctx context.Context) ([]api.Event, error) {
	return l.events.GetOrSet(ctx, keyAll, func(ctx context.Context) ([]api.Event, error) {
		return l.source.Events(ctx, "")
	})
}

// Event returns one event. Not-found errors pass through uncached.
func (l *Listings) Event(ctx context.Context, id int64) (api.Event, error) {
	return l.details.GetOrSet(ctx, strconv.FormatInt(id, 10), func(ctx context.Context) (api.Event, error) {
		e, err := l.source.Event(ctx, "", id)
		if err != nil {
			return api.Event{}, err
		}
		return *e, nil
	})
}

// Trending returns the trending events.
func (l *Listings) Trending(ctx context.Context) ([]api.TrendingEvent, error) {
	return l.trending.GetOrSet(ctx, keyTrending, func(ctx context.Context) ([]api.TrendingEvent, error) {
		return l.source.Trending(ctx, "")
	})
}

// Forget drops the cached copies touched by a change to one event. An id of
// zero only drops the lists.
func (l *Listings) Forget(ctx context.Context, id int64) {
	if err := l.events.Delete(ctx, keyAll); err != nil {
		l.logger.Warn("dropping cached event list", "error", err)
	}
	if err := l.trending.Delete(ctx, keyTrending); err != nil {
		l.logger.Warn("dropping cached trending list", "error", err)
	}
	if id > 0 {
		if err := l.details.Delete(ctx, strconv.FormatInt(id, 10)); err != nil {
			l.logger.Warn("dropping cached event", "event_id", id, "error", err)
		}
	}
}

// Purge drops every cached listing.
func (l *Listings) Purge(ctx context.Context) error {
	return errors.Join(
		l.events.Invalidate(ctx),
		l.details.Invalidate(ctx),
		l.trending.Invalidate(ctx),
	)
}

// Warm refetches the lists and stores them unconditionally. Trending
// failures are logged and do not fail the warm-up.
func (l *Listings) Warm(ctx context.Context) error {
	start := time.Now()
	if err := l.events.Refresh(ctx, keyAll, func(ctx context.Context) ([]api.Event, error) {
		return l.source.Events(ctx, "")
	}); err != nil {
		return fmt.Errorf("warming event list: %w", err)
	}
	if err := l.trending.Refresh(ctx, keyTrending, func(ctx context.Context) ([]api.TrendingEvent, error) {
		return l.source.Trending(ctx, "")
	}); err != nil {
		l.logger.Debug("warming trending list", "error", err)
	}
	l.logger.Debug("listings warmed", "duration", time.Since(start))
	return nil
}
