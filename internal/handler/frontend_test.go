// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/render"
	"github.com/ktltc/cms-go/internal/service"
	"github.com/ktltc/cms-go/internal/stats"
	"github.com/ktltc/cms-go/web"
)

func newFrontendTestHandler(t *testing.T, news *fakeNewsStore, pages *fakePageStore, nav *fakeNavStore) *FrontendHandler {
	t.Helper()

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("sub filesystem: %v", err)
	}
	renderer, err := render.New(templates)
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	caches := newTestCaches()
	menu := service.NewMenuService(nav, caches)
	tracker := stats.NewTracker(&fakeStatsSink{}, nil, caches)
	return NewFrontendHandler(renderer, news, pages, menu, tracker, "KTLTC")
}

func TestFrontendHome(t *testing.T) {
	root := navItem("about", nil)
	news := &fakeNewsStore{posts: []model.NewsPost{
		newsPost("Open house 2026", true),
		newsPost("draft post", false),
	}}
	h := newFrontendTestHandler(t, news, &fakePageStore{}, &fakeNavStore{items: []model.NavItem{root}})

	w := httptest.NewRecorder()
	h.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, "Open house 2026") {
		t.Error("published post missing from home page")
	}
	if strings.Contains(html, "draft post") {
		t.Error("draft rendered on home page")
	}
	if !strings.Contains(html, root.Label) {
		t.Error("menu item missing")
	}
}

func TestFrontendNewsDetail(t *testing.T) {
	published := newsPost("Sports day", true)
	draft := newsPost("Unreleased", false)
	news := &fakeNewsStore{posts: []model.NewsPost{published, draft}}
	h := newFrontendTestHandler(t, news, &fakePageStore{}, &fakeNavStore{})

	get := func(id string) *httptest.ResponseRecorder {
		r := chiRequest(httptest.NewRequest(http.MethodGet, "/news/"+id, nil),
			map[string]string{"id": id})
		w := httptest.NewRecorder()
		h.NewsDetail(w, r)
		return w
	}

	if w := get(published.ID.Hex()); w.Code != http.StatusOK {
		t.Errorf("published status = %d", w.Code)
	}
	if w := get(draft.ID.Hex()); w.Code != http.StatusNotFound {
		t.Errorf("draft status = %d, want 404", w.Code)
	}
	if w := get(primitive.NewObjectID().Hex()); w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
}

func TestFrontendPage(t *testing.T) {
	page := model.Page{ID: primitive.NewObjectID(), Slug: "about", Title: "About the college", Content: "<p>Founded 1979</p>"}
	h := newFrontendTestHandler(t, &fakeNewsStore{}, &fakePageStore{pages: []model.Page{page}}, &fakeNavStore{})

	r := chiRequest(httptest.NewRequest(http.MethodGet, "/p/about", nil),
		map[string]string{"slug": "about"})
	w := httptest.NewRecorder()
	h.Page(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Founded 1979") {
		t.Error("page content not rendered")
	}
}

func TestFrontendLoginForm(t *testing.T) {
	h := newFrontendTestHandler(t, &fakeNewsStore{}, &fakePageStore{}, &fakeNavStore{})

	w := httptest.NewRecorder()
	h.LoginForm(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "login-form") {
		t.Error("login form not rendered")
	}
}

func TestFrontendDashboard(t *testing.T) {
	users := &fakeUserStore{}
	user := seedUser(t, users, "somchai", "longenough", true)
	h := newFrontendTestHandler(t, &fakeNewsStore{}, &fakePageStore{}, &fakeNavStore{})

	sm := scs.New()
	guarded := sm.LoadAndSave(
		middleware.Auth(sm)(
			middleware.LoadUser(sm, users)(http.HandlerFunc(h.Dashboard))))

	t.Run("no session redirects to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})

	// Establish a session the way a successful login does.
	establish := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), middleware.SessionKeyUserID, user.ID.Hex())
	}))
	w := httptest.NewRecorder()
	establish.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}

	withSession := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		return r
	}

	t.Run("session renders the shell", func(t *testing.T) {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, withSession())

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), user.Name) {
			t.Error("user name not rendered")
		}
	})

	t.Run("deactivated user is bounced", func(t *testing.T) {
		for i := range users.users {
			users.users[i].IsActive = false
		}
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, withSession())

		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location = %q, want /login", loc)
		}
	})
}
