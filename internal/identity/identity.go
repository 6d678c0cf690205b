// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity defines the authenticated user as seen by the web frontend
// and the closed set of roles the backend assigns.
package identity

import (
	"fmt"
	"strings"
)

// Role is a backend role tag.
type Role string

// Roles issued by the backend. Anonymous is never returned by the backend;
// it names the role of a visitor without a session.
const (
	RoleAnonymous Role = "ROLE_ANONYMOUS"
	RoleVisitor   Role = "ROLE_VISITOR"
	RoleOrganizer Role = "ROLE_ORGANIZER"
	RoleAdmin     Role = "ROLE_ADMIN"
)

const rolePrefix = "ROLE_"

// Roles lists every known role, in display order.
var Roles = []Role{RoleVisitor, RoleOrganizer, RoleAdmin}

// ParseRole converts a backend role tag into a Role.
// Both "ROLE_ORGANIZER" and "organizer" are accepted.
func ParseRole(s string) (Role, error) {
	tag := strings.ToUpper(strings.TrimSpace(s))
	if tag == "" {
		return "", fmt.Errorf("empty role")
	}
	if !strings.HasPrefix(tag, rolePrefix) {
		tag = rolePrefix + tag
	}
	role := Role(tag)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// IsValid reports whether r belongs to the closed role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleAnonymous, RoleVisitor, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// Label returns a human-readable role name ("Organizer").
func (r Role) Label() string {
	name := strings.TrimPrefix(string(r), rolePrefix)
	if name == "" {
		return ""
	}
	return name[:1] + strings.ToLower(name[1:])
}

func (r Role) String() string {
	return string(r)
}

// Identity is the authenticated user held for a browser session.
type Identity struct {
	ID    int64
	Email string
	Role  Role
}

// Is reports whether the identity carries the given role.
func (i Identity) Is(role Role) bool {
	return i.Role == role
}
