// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/eventix/internal/identity"
)

const testCred = "JSESSIONID=abc123"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://example.com", "http://"} {
		if _, err := New(raw, Options{}); err == nil {
			t.Errorf("New(%q) error = nil; want error", raw)
		}
	}
}

func TestWhoAmI(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantRole identity.Role
		wantKind Kind
	}{
		{
			name:     "organizer",
			status:   http.StatusOK,
			body:     map[string]any{"id": 7, "name": "Acme", "user": map[string]any{"id": 3, "email": "o@example.com", "role": "ROLE_ORGANIZER"}},
			wantRole: identity.RoleOrganizer,
		},
		{
			name:     "visitor",
			status:   http.StatusOK,
			body:     map[string]any{"user": map[string]any{"id": 4, "email": "v@example.com", "role": "ROLE_VISITOR"}},
			wantRole: identity.RoleVisitor,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     map[string]any{"message": "Full authentication is required"},
			wantKind: KindUnauthorized,
		},
		{
			name:     "missing user",
			status:   http.StatusOK,
			body:     map[string]any{"id": 1, "name": "x"},
			wantKind: KindMalformed,
		},
		{
			name:     "unknown role",
			status:   http.StatusOK,
			body:     map[string]any{"user": map[string]any{"id": 4, "email": "v@example.com", "role": "ROLE_ROOT"}},
			wantKind: KindMalformed,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     map[string]any{"error": "Internal Server Error"},
			wantKind: KindUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/profile/me", r.URL.Path)
				assert.Equal(t, testCred, r.Header.Get("Cookie"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				writeJSON(w, tt.status, tt.body)
			})

			id, err := c.WhoAmI(context.Background(), testCred)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, id.Role)
		})
	}
}

func TestWhoAmI_NoCredentialSkipsCall(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.WhoAmI(context.Background(), "")
	assert.True(t, IsUnauthorized(err))
	assert.False(t, called)
}

func TestWhoAmI_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, Options{Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.WhoAmI(context.Background(), testCred)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestRedirectToLoginIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	_, err := c.MyEvents(context.Background(), testCred)
	assert.True(t, IsUnauthorized(err))
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "o@example.com", r.PostForm.Get("username"))
			assert.Equal(t, "secret", r.PostForm.Get("password"))
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "xyz", Path: "/", HttpOnly: true})
			http.Redirect(w, r, "/organizer/home", http.StatusFound)
		})

		cred, err := c.Login(context.Background(), "o@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "JSESSIONID=xyz", cred)
	})

	t.Run("bad credentials", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/login?error", http.StatusFound)
		})

		_, err := c.Login(context.Background(), "o@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.Equal(t, "Invalid email or password.", Message(err, ""))
	})

	t.Run("no session cookie", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, err := c.Login(context.Background(), "o@example.com", "secret")
		assert.Equal(t, KindUnexpected, KindOf(err))
	})
}

func TestLogout_RedirectIsSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	assert.NoError(t, c.Logout(context.Background(), testCred))
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   SubscribeOutcome
	}{
		{"free category", http.StatusOK, SubscriptionConfirmed},
		{"paid category", http.StatusCreated, PaymentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var in SubscriptionInput
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, int64(5), in.EventID)
				writeJSON(w, tt.status, map[string]any{"id": 99, "montant": 15000, "places": 2})
			})

			res, err := c.Subscribe(context.Background(), testCred, SubscriptionInput{EventID: 5, TicketID: 1, Places: 2})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, int64(99), res.Subscription.ID)
			assert.Equal(t, 15000, res.Subscription.Amount)
		})
	}
}

func TestSubscribe_InvalidInput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for invalid input")
	})

	_, err := c.Subscribe(context.Background(), testCred, SubscriptionInput{EventID: 5})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestValidateTicket(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantVerdict TicketVerdict
		wantMessage string
		wantErr     bool
	}{
		{"valid", http.StatusOK, map[string]any{"id": 1, "codeticket": "ABC", "event_name": "Fest"}, TicketValid, "", false},
		{"unknown", http.StatusNotFound, map[string]any{"message": "Ticket with code ABC not found."}, TicketInvalid, "Ticket with code ABC not found.", false},
		{"used", http.StatusConflict, map[string]any{}, TicketAlreadyUsed, "This ticket has already been used.", false},
		{"forbidden", http.StatusForbidden, map[string]any{"message": "nope"}, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/subscription/validate", r.URL.Path)
				assert.Equal(t, "ABC", r.URL.Query().Get("code"))
				writeJSON(w, tt.status, tt.body)
			})

			check, err := c.ValidateTicket(context.Background(), testCred, "ABC")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerdict, check.Verdict)
			assert.Equal(t, tt.wantMessage, check.Message)
		})
	}
}

func TestErrorMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Event is full"}`, "Event is full"},
		{"error field", `{"error":"Bad Request"}`, "Bad Request"},
		{"not json", `<html>oops</html>`, "Subscription failed."},
		{"empty", ``, "Subscription failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Subscribe(context.Background(), testCred, SubscriptionInput{EventID: 1, TicketID: 1, Places: 1})
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Equal(t, tt.want, Message(err, "Subscription failed."))
		})
	}
}

func TestAdminEvents_Paged(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		writeJSON(w, http.StatusOK, map[string]any{
			"content": []any{
				map[string]any{"id": 1, "title": "A", "statut": "ACTIF", "featured": true, "organizerProfile": map[string]any{"name": "Org"}},
				map[string]any{"id": 2, "title": "B", "statut": "EN_ATTENTE"},
			},
			"totalPages": 3,
		})
	})

	page, err := c.AdminEvents(context.Background(), testCred, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Org", page.Content[0].OrganizerName())
	assert.Equal(t, "N/A", page.Content[1].OrganizerName())
	assert.Equal(t, EventPending, page.Content[1].Status)
}

func TestEvents_MalformedItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{map[string]any{"id": 1, "title": "ok"}, map[string]any{"title": "no id"}})
	})

	_, err := c.Events(context.Background(), "")
	assert.Equal(t, KindMalformed, KindOf(err))
}

func TestDateDecoding(t *testing.T) {
	var ev Event
	err := json.Unmarshal([]byte(`{"id":1,"title":"t","debut":"2025-06-01","fin":[2025,6,3]}`), &ev)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ev.Start.Time)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), ev.End.Time)

	var sub Subscription
	err = json.Unmarshal([]byte(`{"id":1,"createdAt":"2025-06-01T10:30:00.123"}`), &sub)
	require.NoError(t, err)
	assert.Equal(t, 10, sub.CreatedAt.Hour())
}

func TestErrorIs(t *testing.T) {
	err := error(&Error{Kind: KindNotFound, Status: 404, Message: "x"})
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(err, &Error{Kind: KindConflict}))
}
