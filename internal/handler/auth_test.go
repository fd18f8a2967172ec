// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/ktltc/cms-go/internal/auth"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newAuthTestHandler(t *testing.T, users *fakeUserStore) (*AuthHandler, *scs.SessionManager) {
	t.Helper()
	sm := scs.New()
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	return NewAuthHandler(users, sm, lp, testJWTSecret, false), sm
}

func seedUser(t *testing.T, users *fakeUserStore, username, password string, active bool) model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := model.User{
		Username:     username,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         model.RoleEditor,
		IsActive:     active,
	}
	id, err := users.Create(t.Context(), &user)
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	user.ID = id
	return user
}

func postJSON(path, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestRegister(t *testing.T) {
	users := &fakeUserStore{}
	h, _ := newAuthTestHandler(t, users)

	t.Run("creates inactive editor", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Register(w, postJSON("/api/auth/register",
			`{"username":"somchai","password":"longenough","name":"Somchai"}`))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["success"] != true {
			t.Error("success != true")
		}

		created, err := users.GetByUsername(t.Context(), "somchai")
		if err != nil {
			t.Fatalf("user not stored: %v", err)
		}
		if created.Role != model.RoleEditor {
			t.Errorf("role = %q, want editor", created.Role)
		}
		if created.IsActive {
			t.Error("new account is active")
		}
		if created.PasswordHash == "longenough" || created.PasswordHash == "" {
			t.Error("password not hashed")
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Register(w, postJSON("/api/auth/register",
			`{"username":"somchai","password":"longenough","name":"Other"}`))

		if w.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", w.Code)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Register(w, postJSON("/api/auth/register",
			`{"username":"other","password":"short","name":"Other"}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Register(w, postJSON("/api/auth/register", `{"username":"nobody"}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestLogin(t *testing.T) {
	users := &fakeUserStore{}
	h, sm := newAuthTestHandler(t, users)
	seedUser(t, users, "active", "correct-horse", true)
	seedUser(t, users, "disabled", "correct-horse", false)

	login := sm.LoadAndSave(http.HandlerFunc(h.Login))

	t.Run("success sets cookies", func(t *testing.T) {
		w := httptest.NewRecorder()
		login.ServeHTTP(w, postJSON("/api/auth/login",
			`{"username":"active","password":"correct-horse"}`))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var tokenCookie, sessionCookie bool
		for _, c := range w.Result().Cookies() {
			switch c.Name {
			case auth.TokenCookieName:
				tokenCookie = true
				if _, err := auth.ParseToken(testJWTSecret, c.Value); err != nil {
					t.Errorf("token cookie does not verify: %v", err)
				}
				if !c.HttpOnly {
					t.Error("token cookie is not HttpOnly")
				}
			case sm.Cookie.Name:
				sessionCookie = true
			}
		}
		if !tokenCookie {
			t.Error("token cookie not set")
		}
		if !sessionCookie {
			t.Error("session cookie not set")
		}

		body := decodeBody(t, w)
		if user, ok := body["user"].(map[string]any); !ok {
			t.Error("response has no user document")
		} else if _, leaked := user["password"]; leaked {
			t.Error("password leaked in response")
		}
	})

	// Unknown usernames, wrong passwords and disabled accounts must be
	// indistinguishable.
	rejections := []struct {
		name string
		body string
	}{
		{"unknown username", `{"username":"ghost","password":"correct-horse"}`},
		{"wrong password", `{"username":"active","password":"wrong"}`},
		{"inactive account", `{"username":"disabled","password":"correct-horse"}`},
	}

	var firstError string
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			login.ServeHTTP(w, postJSON("/api/auth/login", tt.body))

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			msg, _ := decodeBody(t, w)["error"].(string)
			if msg == "" {
				t.Fatal("no error message")
			}
			if firstError == "" {
				firstError = msg
			} else if msg != firstError {
				t.Errorf("error %q differs from %q: reveals account state", msg, firstError)
			}
		})
	}
}

func TestLoginLockout(t *testing.T) {
	users := &fakeUserStore{}
	h, sm := newAuthTestHandler(t, users)
	seedUser(t, users, "victim", "correct-horse", true)

	login := sm.LoadAndSave(http.HandlerFunc(h.Login))

	cfg := middleware.DefaultLoginProtectionConfig()
	for i := 0; i < cfg.MaxFailedAttempts; i++ {
		w := httptest.NewRecorder()
		login.ServeHTTP(w, postJSON("/api/auth/login",
			`{"username":"victim","password":"wrong"}`))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, w.Code)
		}
	}

	// Even the right password is refused while locked.
	w := httptest.NewRecorder()
	login.ServeHTTP(w, postJSON("/api/auth/login",
		`{"username":"victim","password":"correct-horse"}`))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after lockout", w.Code)
	}
}

func TestLogout(t *testing.T) {
	users := &fakeUserStore{}
	h, sm := newAuthTestHandler(t, users)

	logout := sm.LoadAndSave(http.HandlerFunc(h.Logout))

	// No session at all: still a success.
	w := httptest.NewRecorder()
	logout.ServeHTTP(w, postJSON("/api/auth/logout", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.TokenCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("token cookie not cleared")
	}
}
