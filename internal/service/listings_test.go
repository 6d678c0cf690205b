// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/cache"
)

type fakeSource struct {
	events      []api.Event
	trending    []api.TrendingEvent
	eventErr    error
	trendingErr error

	eventsCalls   atomic.Int32
	eventCalls    atomic.Int32
	trendingCalls atomic.Int32
	creds         []string
}

func (f *fakeSource) Events(_ context.Context, cred string) ([]api.Event, error) {
	f.eventsCalls.Add(1)
	f.creds = append(f.creds, cred)
	return f.events, f.eventErr
}

func (f *fakeSource) Event(_ context.Context, _ string, id int64) (*api.Event, error) {
	f.eventCalls.Add(1)
	for _, e := range f.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, &api.Error{Kind: api.KindNotFound, Status: 404, Message: "not found"}
}

func (f *fakeSource) Trending(_ context.Context, _ string) ([]api.TrendingEvent, error) {
	f.trendingCalls.Add(1)
	return f.trending, f.trendingErr
}

func newTestListings(src *fakeSource) *Listings {
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 100})
	return NewListings(src, c, time.Minute, nil)
}

func TestListings_EventsCached(t *testing.T) {
	src := &fakeSource{events: []api.Event{{ID: 1, Title: "Concert"}, {ID: 2, Title: "Festival"}}}
	l := newTestListings(src)
	ctx := context.Background()

	first, err := l.Events(ctx)
	require.NoError(t, err)
	second, err := l.Events(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.eventsCalls.Load())
	assert.Equal(t, []string{""}, src.creds, "listings are fetched without a credential")
}

func TestListings_ErrorsNotCached(t *testing.T) {
	src := &fakeSource{eventErr: errors.New("backend down")}
	l := newTestListings(src)
	ctx := context.Background()

	_, err := l.Events(ctx)
	require.Error(t, err)

	src.eventErr = nil
	src.events = []api.Event{{ID: 1, Title: "Concert"}}
	got, err := l.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), src.eventsCalls.Load())
}

func TestListings_EventNotFound(t *testing.T) {
	l := newTestListings(&fakeSource{})

	_, err := l.Event(context.Background(), 99)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
}

func TestListings_ForgetDropsEvent(t *testing.T) {
	src := &fakeSource{events: []api.Event{{ID: 7, Title: "Old title"}}}
	l := newTestListings(src)
	ctx := context.Background()

	e, err := l.Event(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Old title", e.Title)
	_, err = l.Events(ctx)
	require.NoError(t, err)

	src.events[0].Title = "New title"
	l.Forget(ctx, 7)

	e, err = l.Event(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "New title", e.Title)
	_, err = l.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.eventCalls.Load())
	assert.Equal(t, int32(2), src.eventsCalls.Load())
}

func TestListings_Warm(t *testing.T) {
	src := &fakeSource{
		events:   []api.Event{{ID: 1, Title: "Concert"}},
		trending: []api.TrendingEvent{{ID: 1, Title: "Concert", Occupancy: 80}},
	}
	l := newTestListings(src)
	ctx := context.Background()

	require.NoError(t, l.Warm(ctx))
	require.NoError(t, l.Warm(ctx))
	assert.Equal(t, int32(2), src.eventsCalls.Load(), "warm always refetches")

	_, err := l.Events(ctx)
	require.NoError(t, err)
	tr, err := l.Trending(ctx)
	require.NoError(t, err)
	assert.Len(t, tr, 1)
	assert.Equal(t, int32(2), src.eventsCalls.Load())
	assert.Equal(t, int32(2), src.trendingCalls.Load())
}

func TestListings_WarmTrendingFailureTolerated(t *testing.T) {
	src := &fakeSource{
		events:      []api.Event{{ID: 1, Title: "Concert"}},
		trendingErr: errors.New("forbidden"),
	}
	l := newTestListings(src)

	assert.NoError(t, l.Warm(context.Background()))
}

func TestListings_WarmEventsFailure(t *testing.T) {
	l := newTestListings(&fakeSource{eventErr: errors.New("down")})

	assert.Error(t, l.Warm(context.Background()))
}

func TestListings_Purge(t *testing.T) {
	src := &fakeSource{events: []api.Event{{ID: 1, Title: "Concert"}}}
	l := newTestListings(src)
	ctx := context.Background()

	_, _ = l.Events(ctx)
	_, _ = l.Event(ctx, 1)
	require.NoError(t, l.Purge(ctx))
	_, _ = l.Events(ctx)
	_, _ = l.Event(ctx, 1)

	assert.Equal(t, int32(2), src.eventsCalls.Load())
	assert.Equal(t, int32(2), src.eventCalls.Load())
}
