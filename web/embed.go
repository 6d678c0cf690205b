// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the page templates and the built static assets into
// the binary.
package web

import "embed"

// Templates holds layouts/, partials/ and one directory per area.
//
//go:embed all:templates
var Templates embed.FS

// Static is served under /static/ once stripped to static/dist.
//
//go:embed all:static/dist
var Static embed.FS
