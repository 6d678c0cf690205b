// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/eventix/internal/identity"
)

// ErrNoSession is returned by WhoAmI when there is no backend credential.
var ErrNoSession = &Error{Kind: KindUnauthorized, Message: "Not logged in."}

// Login submits the backend login form and returns the backend session
// cookie. A redirect back to the login form means bad credentials.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.send(ctx, http.MethodPost, "/login", "", form)
	if err != nil {
		return "", err
	}

	if resp.status == http.StatusUnauthorized || loginRejected(resp.header.Get("Location")) {
		return "", &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid email or password."}
	}
	if resp.status >= 400 {
		return "", errorFromResponse(resp.status, resp.body)
	}

	cred := cookieHeader(resp.header)
	if cred == "" {
		return "", &Error{Kind: KindUnexpected, Status: resp.status, Message: "The server did not start a session."}
	}
	return cred, nil
}

// loginRejected reports whether a login redirect points back at the login
// form with an error marker.
func loginRejected(location string) bool {
	if location == "" {
		return false
	}
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Path, "/login") && u.Query().Has("error")
}

// cookieHeader turns Set-Cookie headers into a Cookie header value.
func cookieHeader(h http.Header) string {
	resp := http.Response{Header: h}
	cookies := resp.Cookies()
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// Logout ends the backend session. The backend answers with a redirect to
// its login form, which counts as success.
func (c *Client) Logout(ctx context.Context, cred string) error {
	resp, err := c.send(ctx, http.MethodPost, "/logout", cred, nil)
	if err != nil {
		return err
	}
	if resp.status >= 400 {
		return errorFromResponse(resp.status, resp.body)
	}
	return nil
}

// Me returns the profile of the credential's owner.
func (c *Client) Me(ctx context.Context, cred string) (*Profile, error) {
	var p Profile
	if _, err := c.do(ctx, http.MethodGet, "/api/profile/me", cred, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// WhoAmI resolves the identity behind a backend credential. The role comes
// from the explicit user.role field of the profile.
func (c *Client) WhoAmI(ctx context.Context, cred string) (identity.Identity, error) {
	if cred == "" {
		return identity.Identity{}, ErrNoSession
	}
	p, err := c.Me(ctx, cred)
	if err != nil {
		return identity.Identity{}, err
	}
	return IdentityOf(p)
}

// IdentityOf extracts the identity from a profile.
func IdentityOf(p *Profile) (identity.Identity, error) {
	if p == nil || p.User == nil {
		return identity.Identity{}, &Error{Kind: KindMalformed, Message: "The profile has no account."}
	}
	role, err := identity.ParseRole(p.User.Role)
	if err != nil {
		return identity.Identity{}, &Error{Kind: KindMalformed, Message: "The profile has an unknown role.", Cause: err}
	}
	if role == identity.RoleAnonymous {
		return identity.Identity{}, &Error{Kind: KindMalformed, Message: "The profile has an anonymous role."}
	}
	return identity.Identity{ID: p.User.ID, Email: p.User.Email, Role: role}, nil
}

// UpdateProfile edits the caller's profile and returns the stored copy.
func (c *Client) UpdateProfile(ctx context.Context, cred string, in ProfileUpdate) (*Profile, error) {
	if _, err := c.do(ctx, http.MethodPut, "/api/profile/me", cred, in, nil); err != nil {
		return nil, err
	}
	return c.Me(ctx, cred)
}

// RegisterVisitor creates a visitor account.
func (c *Client) RegisterVisitor(ctx context.Context, in Registration) error {
	in.Role = string(identity.RoleVisitor)
	return c.register(ctx, "/visitor/register", in)
}

// RegisterOrganizer creates an organizer account.
func (c *Client) RegisterOrganizer(ctx context.Context, in Registration) error {
	in.Role = string(identity.RoleOrganizer)
	return c.register(ctx, "/organizer/register", in)
}

func (c *Client) register(ctx context.Context, path string, in Registration) error {
	if err := c.validate.Struct(in); err != nil {
		return invalid(err)
	}
	_, err := c.do(ctx, http.MethodPost, path, "", in, nil)
	return err
}
