// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"github.com/ktltc/cms-go/internal/auth"
	"github.com/ktltc/cms-go/internal/util"
)

// APIError is the JSON error envelope for API responses.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIError{Error: message})
}

// APIAuth creates middleware that authenticates API requests via the signed
// token cookie. The token's user is re-checked against the database so
// deactivating or deleting an account takes effect immediately, not at
// token expiry. The user and claims are placed in the request context.
func APIAuth(secret string, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.TokenCookieName)
			if err != nil || cookie.Value == "" {
				WriteAPIError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := auth.ParseToken(secret, cookie.Value)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil || !user.IsActive {
				WriteAPIError(w, http.StatusUnauthorized, "Account is not available")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			ctx = context.WithValue(ctx, ContextKeyClaims, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAPIAuth is APIAuth for routes that serve both anonymous and
// authenticated callers. A valid token populates the context exactly as
// APIAuth does; a missing or bad token continues anonymously instead of
// rejecting.
func OptionalAPIAuth(secret string, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.TokenCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseToken(secret, cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.GetByID(r.Context(), id)
			if err != nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			ctx = context.WithValue(ctx, ContextKeyClaims, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the verified token claims from the request context.
// Returns nil outside APIAuth-protected routes.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(ContextKeyClaims).(auth.Claims)
	if !ok {
		return nil
	}
	return &claims
}

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds drops all entries if the cache exceeds maxSize.
// Returns true if the cache was cleared.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// RateLimiter rate limits requests per client IP.
type RateLimiter struct {
	cache *limiterCache[string]
}

// NewRateLimiter creates a per-IP rate limiter. rps is requests per second,
// burst the maximum burst size.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{cache: newLimiterCache[string](rps, burst)}
}

// Middleware returns the rate limiting middleware for API routes.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			if !rl.cache.get(ip).Allow() {
				WriteAPIError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
