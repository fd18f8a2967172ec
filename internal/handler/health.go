// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/version"
)

type databasePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db          databasePinger
	versionInfo version.Info
	startTime   time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db databasePinger, versionInfo version.Info) *HealthHandler {
	return &HealthHandler{
		db:          db,
		versionInfo: versionInfo,
		startTime:   time.Now(),
	}
}

// HealthStatusPublic is the minimal response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the full response for authenticated callers.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /api/health. Unauthenticated callers get a bare
// up/down status; authenticated ones get the database check and runtime
// details.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())

	if middleware.GetUser(r) == nil {
		status := "ok"
		code := http.StatusOK
		if dbCheck.Status != "ok" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, HealthStatusPublic{Status: status})
		return
	}

	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.versionInfo.String(),
		Checks:    map[string]Check{"database": dbCheck},
		System:    systemInfo(),
	}
	code := http.StatusOK
	if dbCheck.Status != "ok" {
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return Check{Status: "error", Message: "database unreachable"}
	}
	return Check{Status: "ok", Latency: time.Since(start).Round(time.Microsecond).String()}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     fmt.Sprintf("%.1f MiB", float64(m.Alloc)/(1<<20)),
		MemSys:       fmt.Sprintf("%.1f MiB", float64(m.Sys)/(1<<20)),
	}
}
