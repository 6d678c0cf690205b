// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/olegiv/eventix/internal/api"
	"github.com/olegiv/eventix/internal/identity"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind api.Kind
		want int
	}{
		{api.KindValidation, http.StatusUnprocessableEntity},
		{api.KindNotFound, http.StatusNotFound},
		{api.KindConflict, http.StatusConflict},
		{api.KindForbidden, http.StatusForbidden},
		{api.KindNetwork, http.StatusBadGateway},
		{api.KindMalformed, http.StatusBadGateway},
		{api.KindUnexpected, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(&api.Error{Kind: tt.kind}))
		})
	}

	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		value  string
		want   int64
		wantOK bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.value)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			got, ok := parseIDParam(r, "id")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("places=3&bad=x"))
	r.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")

	assert.Equal(t, 3, formInt(r, "places", 1))
	assert.Equal(t, 1, formInt(r, "bad", 1))
	assert.Equal(t, 7, formInt(r, "missing", 7))
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, RouteRoot, homeFor(identity.RoleVisitor))
	assert.Equal(t, RouteOrganizer, homeFor(identity.RoleOrganizer))
	assert.Equal(t, RouteAdmin, homeFor(identity.RoleAdmin))
	assert.Equal(t, RouteRoot, homeFor(identity.RoleAnonymous))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}

func eventFormRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/organizer/events", strings.NewReader(values.Encode()))
	r.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return r
}

func TestEventInputFromForm(t *testing.T) {
	valid := url.Values{
		"title":    {"  Jazz Night "},
		"places":   {"120"},
		"location": {"Dakar"},
		"start":    {"2026-06-01"},
		"end":      {"2026-06-02"},
	}

	in, msg := eventInputFromForm(eventFormRequest(valid))
	assert.Empty(t, msg)
	assert.Equal(t, "Jazz Night", in.Title)
	assert.Equal(t, 120, in.Places)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), in.Start.Time)

	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"bad start", "start", "01/06/2026", "valid start date"},
		{"bad end", "end", "tomorrow", "valid end date"},
		{"end before start", "end", "2026-05-30", "must not be before"},
		{"private picture", "picture_url", "http://127.0.0.1/a.png", "Picture URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			for k, v := range valid {
				values[k] = v
			}
			values.Set(tt.key, tt.value)

			_, msg := eventInputFromForm(eventFormRequest(values))
			assert.Contains(t, msg, tt.wantMsg)
		})
	}
}

func TestParseFormDate_Empty(t *testing.T) {
	d, err := parseFormDate("  ")
	assert.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestTicketPrice(t *testing.T) {
	ev := api.Event{Categories: []api.TicketCategory{{ID: 1, Price: 0}, {ID: 2, Price: 2500}}}

	assert.Equal(t, 2500, ticketPrice(ev, 2))
	assert.Equal(t, 0, ticketPrice(ev, 1))
	assert.Equal(t, 0, ticketPrice(ev, 99))
}

func TestVerdictResult(t *testing.T) {
	tests := []struct {
		name      string
		check     api.TicketCheck
		wantLevel string
		wantMsg   string
	}{
		{"valid", api.TicketCheck{Verdict: api.TicketValid}, scanSuccess, "Valid ticket. Entry granted."},
		{"used", api.TicketCheck{Verdict: api.TicketAlreadyUsed}, scanWarning, "This ticket has already been used."},
		{"invalid", api.TicketCheck{Verdict: api.TicketInvalid}, scanDanger, "Unknown ticket code."},
		{"backend message kept", api.TicketCheck{Verdict: api.TicketInvalid, Message: "Expired"}, scanDanger, "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := verdictResult(&tt.check)
			assert.Equal(t, tt.wantLevel, res.Level)
			assert.Equal(t, tt.wantMsg, res.Message)
		})
	}
}

func TestIsMobile(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", true},
		{"android", "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36", true},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/organizer/scanner", nil)
			r.Header.Set("User-Agent", tt.ua)
			assert.Equal(t, tt.want, isMobile(r))
		})
	}
}

func TestKnownEventStatus(t *testing.T) {
	for _, s := range api.EventStatuses {
		assert.True(t, knownEventStatus(s), s)
	}
	assert.False(t, knownEventStatus("DRAFT"))
}
