// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/auth"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
)

const minPasswordLength = 8

// userAccounts is the slice of the user store the auth handler needs.
type userAccounts interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, p store.UpdateUserParams) error
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users           userAccounts
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	jwtSecret       string
	secureCookies   bool

	// dummyHash absorbs password checks for unknown usernames so the
	// response time does not reveal whether an account exists.
	dummyHash string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users userAccounts, sm *scs.SessionManager, lp *middleware.LoginProtection, jwtSecret string, secureCookies bool) *AuthHandler {
	dummy, err := auth.HashPassword("-")
	if err != nil {
		slog.Error("hashing dummy password", "error", err)
	}
	return &AuthHandler{
		users:           users,
		sessionManager:  sm,
		loginProtection: lp,
		jwtSecret:       jwtSecret,
		secureCookies:   secureCookies,
		dummyHash:       dummy,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LineID   string `json:"lineId"`
}

// Register handles POST /api/auth/register. New accounts start as inactive
// editors and must be activated by a super admin; there is no auto-login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Password == "" || req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "username, password and name are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeJSONError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		LineID:       req.LineID,
		Role:         model.RoleEditor,
		IsActive:     false,
	}

	id, err := h.users.Create(r.Context(), user)
	if err != nil {
		writeStoreError(w, err, "account")
		return
	}

	slog.Info("user registered", "category", model.EventCategoryAuth, "username", req.Username)
	writeJSONSuccess(w, map[string]any{"_id": id.Hex()})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. Failures are indistinguishable to the
// caller: unknown username, wrong password and deactivated accounts all
// produce the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if locked, retryAfter := h.loginProtection.IsAccountLocked(req.Username); locked {
		slog.Warn("login attempt on locked account",
			"category", model.EventCategoryAuth, "username", req.Username)
		w.Header().Set("Retry-After", retryAfter.Round(time.Second).String())
		writeJSONError(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// Burn a hash verification anyway so lookups and mismatches
		// take about the same time.
		_, _ = auth.CheckPassword(req.Password, h.dummyHash)
		h.failLogin(w, req.Username, "unknown username")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.failLogin(w, req.Username, "wrong password")
		return
	}
	if !user.IsActive {
		h.failLogin(w, req.Username, "inactive account")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(req.Username)

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			_ = h.users.Update(r.Context(), user.ID, store.UpdateUserParams{PasswordHash: &newHash})
		}
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("renewing session token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID.Hex())

	token, err := auth.GenerateToken(h.jwtSecret, user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		slog.Error("generating token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenLifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user logged in", "category", model.EventCategoryAuth, "username", user.Username)
	writeJSONSuccess(w, map[string]any{"user": user})
}

// failLogin records the attempt for lockout purposes and answers with the
// generic rejection.
func (h *AuthHandler) failLogin(w http.ResponseWriter, username, reason string) {
	locked, _ := h.loginProtection.RecordFailedAttempt(username)
	slog.Warn("login failed",
		"category", model.EventCategoryAuth, "username", username,
		"reason", reason, "locked", locked)
	writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
}

// Logout handles POST /api/auth/logout. Safe to call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("destroying session", "error", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSONSuccess(w, nil)
}
