// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser   ContextKey = "user"
	ContextKeyClaims ContextKey = "claims"
)

// SessionKeyUserID holds the authenticated user's ObjectID hex in the session.
const SessionKeyUserID = "user_id"

// UserGetter loads a user by id. *store.UserStore satisfies it.
type UserGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Auth creates middleware that requires a session. Unauthenticated requests
// are redirected to the login page.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetString(r.Context(), SessionKeyUserID) == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that resolves the session user and puts it in
// the request context. A stale session (deleted or deactivated user) is
// destroyed and the request redirected to login. Use after Auth.
func LoadUser(sm *scs.SessionManager, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hex := sm.GetString(r.Context(), SessionKeyUserID)
			if hex == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil || !user.IsActive {
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// RequireRole creates middleware that requires at least the given role.
// Roles are hierarchical: super_admin > admin > editor. Must run after
// LoadUser or APIAuth so the user is in context.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	minLevel := model.RoleLevel(minRole)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if model.RoleLevel(user.Role) < minLevel {
				slog.Warn("access denied",
					"category", model.EventCategoryAuth,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID.Hex(),
					"user_role", user.Role,
					"required_role", minRole,
				)
				WriteAPIError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin is shorthand for RequireRole(model.RoleSuperAdmin).
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleSuperAdmin)
}

// RequireAdmin is shorthand for RequireRole(model.RoleAdmin). Allows both
// admin and super_admin users.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}
