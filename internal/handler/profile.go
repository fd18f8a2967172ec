// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/auth"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
)

type profileRepo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	Update(ctx context.Context, id primitive.ObjectID, p store.UpdateUserParams) error
}

// ProfileHandler serves the authenticated user's own account document.
type ProfileHandler struct {
	users profileRepo
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users profileRepo) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profilePatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	LineID   *string `json:"lineId"`
	Password *string `json:"password"`
}

// Update handles PATCH /api/profile. Role and activation are off limits
// here; only a super admin can change those, through the users endpoints.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req profilePatch
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := store.UpdateUserParams{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		LineID: req.LineID,
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		if len(*req.Password) < minPasswordLength {
			writeJSONError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			slog.Error("hashing password", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		params.PasswordHash = &hash
	}

	if err := h.users.Update(r.Context(), user.ID, params); err != nil {
		writeStoreError(w, err, "profile")
		return
	}

	updated, err := h.users.GetByID(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}

	slog.Info("profile updated", "category", model.EventCategoryUser, "username", user.Username)
	writeJSONSuccess(w, map[string]any{"user": updated})
}
