// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/auth"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
)

type userRepo interface {
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id primitive.ObjectID, p store.UpdateUserParams) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Reorder(ctx context.Context, ids []primitive.ObjectID) error
}

// UsersHandler serves the account-management endpoints. All routes are
// mounted behind RequireSuperAdmin.
type UsersHandler struct {
	users userRepo
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users userRepo) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users. The store projects the password hash away
// and sorts by explicit order.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "users")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(users))
}

type userPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	LineID   *string `json:"lineId"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password"`
}

// toParams converts the patch into store parameters, hashing a submitted
// password. A blank password means "keep the current one".
func (p *userPatch) toParams() (store.UpdateUserParams, string, bool) {
	if p.Role != nil && !model.IsValidRole(*p.Role) {
		return store.UpdateUserParams{}, "invalid role", false
	}

	params := store.UpdateUserParams{
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
		LineID:   p.LineID,
		Role:     p.Role,
		IsActive: p.IsActive,
	}
	if p.Password != nil && strings.TrimSpace(*p.Password) != "" {
		if len(*p.Password) < minPasswordLength {
			return store.UpdateUserParams{}, "password must be at least 8 characters", false
		}
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			slog.Error("hashing password", "error", err)
			return store.UpdateUserParams{}, "internal server error", false
		}
		params.PasswordHash = &hash
	}
	return params, "", true
}

// Update handles PATCH /api/users/{id}: a merge patch over the account
// document.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}

	var req userPatch
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, msg, ok := req.toParams()
	if !ok {
		status := http.StatusBadRequest
		if msg == "internal server error" {
			status = http.StatusInternalServerError
		}
		writeJSONError(w, status, msg)
		return
	}

	if err := h.users.Update(r.Context(), id, params); err != nil {
		writeStoreError(w, err, "user")
		return
	}

	slog.Info("user updated", "category", model.EventCategoryUser, "id", id.Hex())
	writeJSONSuccess(w, nil)
}

type userStatusPatch struct {
	IsActive *bool   `json:"isActive"`
	Role     *string `json:"role"`
}

// UpdateStatus handles PATCH /api/users/{id}/status: activation and role
// changes only.
func (h *UsersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}

	var req userStatusPatch
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsActive == nil && req.Role == nil {
		writeJSONError(w, http.StatusBadRequest, "isActive or role is required")
		return
	}
	if req.Role != nil && !model.IsValidRole(*req.Role) {
		writeJSONError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := h.users.Update(r.Context(), id, store.UpdateUserParams{
		IsActive: req.IsActive,
		Role:     req.Role,
	}); err != nil {
		writeStoreError(w, err, "user")
		return
	}

	slog.Info("user status updated", "category", model.EventCategoryUser, "id", id.Hex())
	writeJSONSuccess(w, nil)
}

// Delete handles DELETE /api/users/{id}. Deleting your own account is
// rejected so the last super admin cannot lock everyone out.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}

	if me := middleware.GetUser(r); me != nil && me.ID == id {
		writeJSONError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "user")
		return
	}

	slog.Info("user deleted", "category", model.EventCategoryUser, "id", id.Hex())
	writeJSONSuccess(w, nil)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// Reorder handles POST /api/users/reorder. The whole ordered id list is
// written in one bulk operation; a bad id anywhere rejects the request
// before anything is written.
func (h *UsersHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "ids are required")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := store.ParseID(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid id in list: "+raw)
			return
		}
		ids = append(ids, id)
	}

	if err := h.users.Reorder(r.Context(), ids); err != nil {
		writeStoreError(w, err, "users")
		return
	}

	slog.Info("users reordered", "category", model.EventCategoryUser, "count", len(ids))
	writeJSONSuccess(w, nil)
}
