// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveSecurity(cfg SecurityHeadersConfig) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS string
	}{
		{
			name:     "production enables HSTS",
			isDev:    false,
			wantHSTS: "max-age=31536000; includeSubDomains",
		},
		{
			name:     "development disables HSTS",
			isDev:    true,
			wantHSTS: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveSecurity(DefaultSecurityHeadersConfig(tt.isDev))

			if got := rec.Header().Get("Strict-Transport-Security"); got != tt.wantHSTS {
				t.Errorf("HSTS = %q, want %q", got, tt.wantHSTS)
			}
			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.HasPrefix(csp, "default-src 'self'") {
				t.Errorf("CSP should start with default-src, got %q", csp)
			}
			if !strings.Contains(csp, "frame-ancestors 'none'") {
				t.Errorf("CSP should forbid framing, got %q", csp)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
			}
			if got := rec.Header().Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
				t.Errorf("Referrer-Policy = %q", got)
			}
		})
	}
}

func TestSecurityHeaders_CameraAllowedForScanner(t *testing.T) {
	rec := serveSecurity(DefaultSecurityHeadersConfig(false))
	pp := rec.Header().Get("Permissions-Policy")
	if !strings.Contains(pp, "camera=(self)") {
		t.Errorf("Permissions-Policy = %q, want camera=(self)", pp)
	}
	if !strings.Contains(pp, "microphone=()") {
		t.Errorf("Permissions-Policy = %q, want microphone disabled", pp)
	}
}

func TestSecurityHeaders_EmptyValuesOmitted(t *testing.T) {
	rec := serveSecurity(SecurityHeadersConfig{})
	for _, h := range []string{"Content-Security-Policy", "Strict-Transport-Security", "X-Frame-Options", "Referrer-Policy", "Permissions-Policy"} {
		if got := rec.Header().Get(h); got != "" {
			t.Errorf("%s = %q, want empty", h, got)
		}
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestBuildCSP(t *testing.T) {
	got := buildCSP(map[string]string{
		"report-uri":  "/csp",
		"img-src":     "'self'",
		"default-src": "'none'",
		"a-custom":    "x",
	})
	want := "default-src 'none'; img-src 'self'; a-custom x; report-uri /csp"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestBuildPermissionsPolicy(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "(self)"})
	if got != "camera=(self), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", got)
	}
}
