// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public site and the
// JSON admin API. Handlers depend on small repository interfaces implemented
// by the store package so they can be exercised against fakes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ktltc/cms-go/internal/store"
)

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSON writes an arbitrary document (resource or list) as-is, without
// the success envelope.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes a request body into dst, rejecting unknown garbage
// early with a single bounded read.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}

// writeStoreError maps a store error onto the API contract: bad ids are
// 400, missing documents 404, unique-index violations 409, anything else a
// logged 500 with a generic client message.
func writeStoreError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeJSONError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, store.ErrDuplicate):
		writeJSONError(w, http.StatusConflict, resource+" already exists")
	default:
		slog.Error("store operation failed", "resource", resource, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
