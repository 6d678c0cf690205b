// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testCSRFKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	tests := []struct {
		name  string
		addr  string
		isDev bool
		want  []string
	}{
		{name: "production trusts nothing", addr: ":8081", isDev: false, want: nil},
		{name: "development loopback", addr: ":8081", isDev: true, want: []string{"localhost:8081", "127.0.0.1:8081"}},
		{name: "development explicit host", addr: "eventix.local:9000", isDev: true, want: []string{"localhost:9000", "127.0.0.1:9000", "eventix.local:9000"}},
		{name: "development localhost not repeated", addr: "localhost:8081", isDev: true, want: []string{"localhost:8081", "127.0.0.1:8081"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCSRFConfig(testCSRFKey, tt.addr, tt.isDev)
			if len(cfg.AuthKey) != 32 {
				t.Errorf("AuthKey length = %d, want 32", len(cfg.AuthKey))
			}
			if strings.Join(cfg.TrustedOrigins, ",") != strings.Join(tt.want, ",") {
				t.Errorf("TrustedOrigins = %v, want %v", cfg.TrustedOrigins, tt.want)
			}
			for _, origin := range cfg.TrustedOrigins {
				if strings.HasPrefix(origin, "http") {
					t.Errorf("TrustedOrigin %q should be host:port, not a URL", origin)
				}
			}
		})
	}
}

func TestCSRF_Requests(t *testing.T) {
	customCalled := false
	cfg := DefaultCSRFConfig(testCSRFKey, ":8081", false)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customCalled = true
		http.Error(w, "rejected", http.StatusForbidden)
	})

	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		method     string
		fetchSite  string
		origin     string
		wantStatus int
		wantCustom bool
	}{
		{name: "safe method", method: http.MethodGet, fetchSite: "cross-site", wantStatus: http.StatusOK},
		{name: "same origin post", method: http.MethodPost, fetchSite: "same-origin", wantStatus: http.StatusOK},
		{name: "non-browser post", method: http.MethodPost, wantStatus: http.StatusOK},
		{name: "cross site post", method: http.MethodPost, fetchSite: "cross-site", origin: "https://evil.example", wantStatus: http.StatusForbidden, wantCustom: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customCalled = false
			req := httptest.NewRequest(tt.method, "https://example.com/login", nil)
			if tt.fetchSite != "" {
				req.Header.Set("Sec-Fetch-Site", tt.fetchSite)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if customCalled != tt.wantCustom {
				t.Errorf("custom error handler called = %v, want %v", customCalled, tt.wantCustom)
			}
		})
	}
}

func TestCSRF_DefaultErrorHandler(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, ":8081", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a rejected request")
	}))

	req := httptest.NewRequest(http.MethodPost, "https://example.com/logout", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
