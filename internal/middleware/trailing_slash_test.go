// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{name: "root untouched", method: http.MethodGet, target: "/", wantStatus: http.StatusOK},
		{name: "no slash untouched", method: http.MethodGet, target: "/events/4", wantStatus: http.StatusOK},
		{name: "get redirects", method: http.MethodGet, target: "/events/4/", wantStatus: http.StatusMovedPermanently, wantLocation: "/events/4"},
		{name: "query kept", method: http.MethodGet, target: "/admin/events/?page=2", wantStatus: http.StatusMovedPermanently, wantLocation: "/admin/events?page=2"},
		{name: "post keeps method", method: http.MethodPost, target: "/login/", wantStatus: http.StatusPermanentRedirect, wantLocation: "/login"},
		{name: "no protocol relative target", method: http.MethodGet, target: "//evil.example/", wantStatus: http.StatusMovedPermanently, wantLocation: "/evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "http://example.com"+tt.target, nil)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}
