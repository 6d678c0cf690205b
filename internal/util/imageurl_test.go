// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net"
	"strings"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"169.254.169.254", true},
		{"::1", true},
		{"fd00::1", true},
		{"8.8.8.8", false},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := IsPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}

	if !IsPrivateIP(nil) {
		t.Error("nil IP should be treated as private")
	}
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "imgbb", url: "https://i.ibb.co/abc/poster.jpg"},
		{name: "public ip", url: "https://8.8.8.8/a.png"},
		{name: "empty", url: "", wantErr: "required"},
		{name: "http", url: "http://i.ibb.co/a.png", wantErr: "https"},
		{name: "javascript", url: "javascript:alert(1)", wantErr: "https"},
		{name: "credentials", url: "https://user:pw@example.com/a.png", wantErr: "credentials"},
		{name: "localhost", url: "https://localhost/a.png", wantErr: "localhost"},
		{name: "sub localhost", url: "https://app.localhost/a.png", wantErr: "localhost"},
		{name: "private ip", url: "https://192.168.1.10/a.png", wantErr: "private"},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", MaxImageURLLength), wantErr: "maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageURL(tt.url)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateImageURL(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateImageURL(%q) = %v, want error containing %q", tt.url, err, tt.wantErr)
			}
		})
	}
}
