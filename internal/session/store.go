// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/eventix/internal/identity"
)

// Session keys.
const (
	keyStatus     = "auth_status"
	keyUserID     = "user_id"
	keyUserEmail  = "user_email"
	keyUserRole   = "user_role"
	keyCredential = "backend_cookie"
	keyResolvedBy = "auth_resolved_by"
	keyResolvedAt = "auth_resolved_at"
)

const (
	statusAuthenticated   = "authenticated"
	statusUnauthenticated = "unauthenticated"
)

// Status is the resolution state of a browser session.
type Status int

const (
	// StatusUnknown means the bootstrap has not resolved yet. Consumers
	// must not treat it as a final "logged out".
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is the value held by the Store: a status and, when authenticated,
// the identity.
type State struct {
	Status   Status
	Identity identity.Identity
}

// Pending reports whether initialization is still in progress.
func (s State) Pending() bool {
	return s.Status == StatusUnknown
}

// Authenticated reports whether an identity is present.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// User returns the identity and whether one is present.
func (s State) User() (identity.Identity, bool) {
	if s.Status != StatusAuthenticated {
		return identity.Identity{}, false
	}
	return s.Identity, true
}

// Role returns the identity's role, or RoleAnonymous without one.
func (s State) Role() identity.Role {
	if s.Status != StatusAuthenticated {
		return identity.RoleAnonymous
	}
	return s.Identity.Role
}

// Store holds zero-or-one identity per browser session.
// Every method requires a context loaded by the session manager.
//
// A resolved status is stamped with the process that resolved it and the
// time it did. Statuses from an earlier process, or older than maxAge, read
// as unknown so the next request checks the backend credential again.
type Store struct {
	sm     *scs.SessionManager
	bootID string
	maxAge time.Duration
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxAge makes resolved statuses expire after d. Zero keeps them for
// the lifetime of the process.
func WithMaxAge(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// NewStore creates a Store on top of a session manager.
func NewStore(sm *scs.SessionManager, opts ...StoreOption) *Store {
	s := &Store{sm: sm, bootID: uuid.NewString(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manager returns the underlying session manager.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// SetIdentity replaces the held identity unconditionally.
func (s *Store) SetIdentity(ctx context.Context, id identity.Identity) {
	s.sm.Put(ctx, keyUserID, id.ID)
	s.sm.Put(ctx, keyUserEmail, id.Email)
	s.sm.Put(ctx, keyUserRole, string(id.Role))
	s.sm.Put(ctx, keyStatus, statusAuthenticated)
	s.stamp(ctx)
}

// ClearIdentity drops the held identity and marks the session as resolved
// and unauthenticated.
func (s *Store) ClearIdentity(ctx context.Context) {
	s.sm.Remove(ctx, keyUserID)
	s.sm.Remove(ctx, keyUserEmail)
	s.sm.Remove(ctx, keyUserRole)
	s.sm.Put(ctx, keyStatus, statusUnauthenticated)
	s.stamp(ctx)
}

func (s *Store) stamp(ctx context.Context) {
	s.sm.Put(ctx, keyResolvedBy, s.bootID)
	s.sm.Put(ctx, keyResolvedAt, s.now().Unix())
}

// current reports whether the stored status was resolved by this process
// and has not aged out.
func (s *Store) current(ctx context.Context) bool {
	if s.sm.GetString(ctx, keyResolvedBy) != s.bootID {
		return false
	}
	if s.maxAge <= 0 {
		return true
	}
	at := time.Unix(s.sm.GetInt64(ctx, keyResolvedAt), 0)
	return s.now().Sub(at) < s.maxAge
}

// Read returns the current state. The identity of a stale status is kept
// in the session but not reported until the status is resolved again.
func (s *Store) Read(ctx context.Context) State {
	if !s.current(ctx) {
		return State{Status: StatusUnknown}
	}
	switch s.sm.GetString(ctx, keyStatus) {
	case statusAuthenticated:
		return State{
			Status: StatusAuthenticated,
			Identity: identity.Identity{
				ID:    s.sm.GetInt64(ctx, keyUserID),
				Email: s.sm.GetString(ctx, keyUserEmail),
				Role:  identity.Role(s.sm.GetString(ctx, keyUserRole)),
			},
		}
	case statusUnauthenticated:
		return State{Status: StatusUnauthenticated}
	default:
		return State{Status: StatusUnknown}
	}
}

// Credential returns the backend session cookie held for this browser.
func (s *Store) Credential(ctx context.Context) string {
	return s.sm.GetString(ctx, keyCredential)
}

// SetCredential stores the backend session cookie. An empty value removes it.
func (s *Store) SetCredential(ctx context.Context, cookie string) {
	if cookie == "" {
		s.sm.Remove(ctx, keyCredential)
		return
	}
	s.sm.Put(ctx, keyCredential, cookie)
}

// Token returns the session token, minting one for sessions that have not
// been committed yet.
func (s *Store) Token(ctx context.Context) (string, error) {
	if token := s.sm.Token(ctx); token != "" {
		return token, nil
	}
	if err := s.sm.RenewToken(ctx); err != nil {
		return "", err
	}
	return s.sm.Token(ctx), nil
}

// Renew rotates the session token. Call it on privilege changes.
func (s *Store) Renew(ctx context.Context) error {
	return s.sm.RenewToken(ctx)
}

// Flash stores a one-shot message shown on the next rendered page.
func (s *Store) Flash(ctx context.Context, message, kind string) {
	s.sm.Put(ctx, "flash", message)
	s.sm.Put(ctx, "flash_type", kind)
}

// PopFlash returns and removes the pending flash message.
func (s *Store) PopFlash(ctx context.Context) (message, kind string) {
	message = s.sm.PopString(ctx, "flash")
	if message == "" {
		return "", ""
	}
	kind = s.sm.PopString(ctx, "flash_type")
	if kind == "" {
		kind = "info"
	}
	return message, kind
}
