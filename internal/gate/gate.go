// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gate decides whether a view may be rendered for a session.
package gate

import (
	"github.com/olegiv/eventix/internal/identity"
	"github.com/olegiv/eventix/internal/session"
)

// Kind is the kind of access a view requires.
type Kind int

const (
	KindNone Kind = iota
	KindAuthenticated
	KindRole
)

// Requirement describes who may see a view.
type Requirement struct {
	Kind Kind
	Role identity.Role
}

// None lets everyone through.
func None() Requirement { return Requirement{Kind: KindNone} }

// Authenticated requires any logged-in identity.
func Authenticated() Requirement { return Requirement{Kind: KindAuthenticated} }

// Role requires a logged-in identity holding exactly r.
func Role(r identity.Role) Requirement { return Requirement{Kind: KindRole, Role: r} }

func (r Requirement) String() string {
	switch r.Kind {
	case KindAuthenticated:
		return "authenticated"
	case KindRole:
		return "role:" + string(r.Role)
	default:
		return "none"
	}
}

// Outcome is what a request should get.
type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	Deny
	Suspend
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case Deny:
		return "deny"
	case Suspend:
		return "suspend"
	default:
		return "unknown"
	}
}

// Decide maps a session state and a requirement to an outcome.
// An unresolved session always suspends, whatever the requirement.
func Decide(state session.State, req Requirement) Outcome {
	switch state.Status {
	case session.StatusAuthenticated:
		if req.Kind == KindRole && state.Identity.Role != req.Role {
			return Deny
		}
		return Render
	case session.StatusUnauthenticated:
		if req.Kind == KindNone {
			return Render
		}
		return RedirectLogin
	default:
		return Suspend
	}
}
