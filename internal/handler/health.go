// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/eventix/internal/cache"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 3 * time.Second

// Check statuses.
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	backend   Pinger
	db        *sql.DB
	cache     cache.Cacher
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. db and c may be nil.
func NewHealthHandler(backend Pinger, db *sql.DB, c cache.Cacher, version string) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		db:        db,
		cache:     c,
		version:   version,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed health report shown to admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. The body only carries the overall status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, _ := h.run(r.Context())
	writeHealth(w, status, HealthStatusPublic{Status: status})
}

// Details handles GET /admin/health with every check and system metrics.
func (h *HealthHandler) Details(w http.ResponseWriter, r *http.Request) {
	status, checks := h.run(r.Context())
	report := HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
		System:    systemInfo(),
	}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		report.Cache = &stats
	}
	writeHealth(w, status, report)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, statusHealthy, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. The server is ready when the
// backend answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if check := h.checkPinger(r.Context(), h.backend); check.Status != statusHealthy {
		writeHealth(w, statusUnhealthy, map[string]string{"status": "not_ready"})
		return
	}
	writeHealth(w, statusHealthy, map[string]string{"status": "ready"})
}

// run performs every check. A failing backend makes the server unhealthy;
// a failing session database or cache only degrades it.
func (h *HealthHandler) run(ctx context.Context) (string, map[string]Check) {
	checks := map[string]Check{
		"backend": h.checkPinger(ctx, h.backend),
	}
	if h.db != nil {
		checks["sessions"] = h.checkPinger(ctx, dbPinger{h.db})
	}
	if p, ok := h.cache.(Pinger); ok {
		checks["cache"] = h.checkPinger(ctx, p)
	}

	status := statusHealthy
	for name, c := range checks {
		if c.Status == statusHealthy {
			continue
		}
		if name == "backend" {
			return statusUnhealthy, checks
		}
		status = statusDegraded
	}
	return status, checks
}

func (h *HealthHandler) checkPinger(ctx context.Context, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  statusHealthy,
		Message: "Connected",
		Latency: latency.String(),
	}
}

type dbPinger struct {
	db *sql.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func writeHealth(w http.ResponseWriter, status string, body any) {
	w.Header().Set(HeaderContentType, "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if status == statusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// systemInfo returns system-level metrics.
func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
