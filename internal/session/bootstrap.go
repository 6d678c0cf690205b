// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/olegiv/eventix/internal/identity"
)

// ProfileFetcher asks the backend who owns a backend credential.
type ProfileFetcher interface {
	WhoAmI(ctx context.Context, credential string) (identity.Identity, error)
}

// BootstrapConfig tunes the Bootstrapper.
type BootstrapConfig struct {
	// Wait is how long a request waits for the bootstrap call before
	// rendering with the session still unresolved.
	Wait time.Duration
	// CallTimeout bounds the single outbound call.
	CallTimeout time.Duration
	// ResultTTL is how long a finished result waits to be picked up by a
	// later request of the same session.
	ResultTTL time.Duration
	// MaxPending bounds the number of unclaimed results.
	MaxPending int
}

// DefaultBootstrapConfig returns the defaults used by the server.
func DefaultBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Wait:        3 * time.Second,
		CallTimeout: 10 * time.Second,
		ResultTTL:   5 * time.Minute,
		MaxPending:  10000,
	}
}

// outcome is the resolution of one bootstrap call.
type outcome struct {
	id  identity.Identity
	err error
}

// Bootstrapper recovers an existing backend session on the first request of
// a browser session. Each unresolved session triggers one outbound call; the
// call runs detached from the request, and its result is applied either by
// the waiting request or by the next one.
type Bootstrapper struct {
	store   *Store
	fetcher ProfileFetcher
	cfg     BootstrapConfig
	logger  *slog.Logger

	group    singleflight.Group
	finished *expirable.LRU[string, outcome]
}

// NewBootstrapper creates a Bootstrapper.
func NewBootstrapper(store *Store, fetcher ProfileFetcher, cfg BootstrapConfig, logger *slog.Logger) *Bootstrapper {
	def := DefaultBootstrapConfig()
	if cfg.Wait <= 0 {
		cfg.Wait = def.Wait
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = def.ResultTTL
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = def.MaxPending
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Bootstrapper{
		store:    store,
		fetcher:  fetcher,
		cfg:      cfg,
		logger:   logger,
		finished: expirable.NewLRU[string, outcome](cfg.MaxPending, nil, cfg.ResultTTL),
	}
}

// Resolve returns the session state, running the bootstrap when the state
// is still unknown. The returned state is Unknown only when the call did
// not finish within the wait budget or the request was cancelled.
func (b *Bootstrapper) Resolve(ctx context.Context) State {
	state := b.store.Read(ctx)
	if !state.Pending() {
		return state
	}

	token, err := b.store.Token(ctx)
	if err != nil {
		b.logger.Error("session bootstrap: minting token", "error", err)
		return state
	}

	if res, ok := b.finished.Get(token); ok {
		b.finished.Remove(token)
		return b.apply(ctx, res)
	}

	credential := b.store.Credential(ctx)
	ch := b.group.DoChan(token, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.CallTimeout)
		defer cancel()

		id, err := b.fetcher.WhoAmI(callCtx, credential)
		res := outcome{id: id, err: err}
		b.finished.Add(token, res)
		return res, nil
	})

	timer := time.NewTimer(b.cfg.Wait)
	defer timer.Stop()

	select {
	case r := <-ch:
		b.finished.Remove(token)
		return b.apply(ctx, r.Val.(outcome))
	case <-timer.C:
		b.logger.Debug("session bootstrap still pending", "wait", b.cfg.Wait)
		return state
	case <-ctx.Done():
		return state
	}
}

// apply stores a bootstrap result in the session. Any failure is the
// ordinary "not logged in" case and is not reported to the user.
func (b *Bootstrapper) apply(ctx context.Context, res outcome) State {
	if res.err != nil {
		b.logger.Debug("session bootstrap: not logged in", "reason", res.err)
		b.store.ClearIdentity(ctx)
		return b.store.Read(ctx)
	}
	b.store.SetIdentity(ctx, res.id)
	b.logger.Debug("session bootstrap: recovered backend session",
		"user_id", res.id.ID,
		"role", res.id.Role,
	)
	return b.store.Read(ctx)
}

// Forget drops an unclaimed result for a session token.
func (b *Bootstrapper) Forget(token string) {
	if token != "" {
		b.finished.Remove(token)
	}
}

// Renew rotates the session token and drops any result still parked under
// the old one.
func (b *Bootstrapper) Renew(ctx context.Context) error {
	b.Forget(b.store.sm.Token(ctx))
	return b.store.Renew(ctx)
}
