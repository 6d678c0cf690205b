// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
)

// StaticCache adds Cache-Control headers for embedded static files.
// Generated images such as ticket QR codes use private caching.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	value := "public, max-age=" + strconv.Itoa(maxAge)
	return cacheControl(value)
}

// PrivateCache marks responses as cacheable by the browser only.
func PrivateCache(maxAge int) func(http.Handler) http.Handler {
	return cacheControl("private, max-age=" + strconv.Itoa(maxAge))
}

// NoStore forbids caching, for pages that show per-user data.
func NoStore(next http.Handler) http.Handler {
	return cacheControl("no-store")(next)
}

func cacheControl(value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}
