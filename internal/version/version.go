// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version describes the running build.
package version

import "fmt"

// Info is set from ldflags at build time.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String formats the build for the -version flag.
func (i Info) String() string {
	return fmt.Sprintf("eventix %s (commit: %s, built: %s)", or(i.Version, "dev"), or(i.GitCommit, "unknown"), or(i.BuildTime, "unknown"))
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
