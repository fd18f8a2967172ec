// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ktltc/cms-go/internal/cache"
	"github.com/ktltc/cms-go/internal/middleware"
	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/store"
)

// fakeNewsStore keeps posts in insertion order, newest first like the real
// store's sort.
type fakeNewsStore struct {
	posts []model.NewsPost
	err   error

	listCalls int
}

func (f *fakeNewsStore) List(_ context.Context, p store.ListNewsParams) ([]model.NewsPost, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.NewsPost
	for _, post := range f.posts {
		if p.PublishedOnly && !post.Published {
			continue
		}
		out = append(out, post)
	}
	if p.Skip > 0 {
		if p.Skip >= int64(len(out)) {
			out = nil
		} else {
			out = out[p.Skip:]
		}
	}
	if p.Limit > 0 && int64(len(out)) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeNewsStore) Count(_ context.Context, publishedOnly bool) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, post := range f.posts {
		if publishedOnly && !post.Published {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeNewsStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.NewsPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			post := f.posts[i]
			return &post, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeNewsStore) Create(_ context.Context, post *model.NewsPost) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	post.ID = primitive.NewObjectID()
	f.posts = append([]model.NewsPost{*post}, f.posts...)
	return post.ID, nil
}

func (f *fakeNewsStore) Update(_ context.Context, id primitive.ObjectID, p store.UpdateNewsParams) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			if p.Title != nil {
				f.posts[i].Title = *p.Title
			}
			if p.Categories != nil {
				f.posts[i].Categories = p.Categories
				f.posts[i].Category = p.Categories[0]
			}
			if p.Content != nil {
				f.posts[i].Content = *p.Content
			}
			if p.Published != nil {
				f.posts[i].Published = *p.Published
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeNewsStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakePageStore struct {
	pages []model.Page
	err   error
}

func (f *fakePageStore) List(context.Context) ([]model.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func (f *fakePageStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.pages {
		if f.pages[i].ID == id {
			page := f.pages[i]
			return &page, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakePageStore) GetBySlug(_ context.Context, slug string) (*model.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.pages {
		if f.pages[i].Slug == slug {
			page := f.pages[i]
			return &page, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakePageStore) Create(_ context.Context, page *model.Page) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	for i := range f.pages {
		if f.pages[i].Slug == page.Slug {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	page.ID = primitive.NewObjectID()
	f.pages = append(f.pages, *page)
	return page.ID, nil
}

func (f *fakePageStore) Update(_ context.Context, id primitive.ObjectID, slug, title, content string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.pages {
		if f.pages[i].Slug == slug && f.pages[i].ID != id {
			return store.ErrDuplicate
		}
	}
	for i := range f.pages {
		if f.pages[i].ID == id {
			f.pages[i].Slug = slug
			f.pages[i].Title = title
			f.pages[i].Content = content
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakePageStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.pages {
		if f.pages[i].ID == id {
			f.pages = append(f.pages[:i], f.pages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeNavStore struct {
	items []model.NavItem
	err   error
}

func (f *fakeNavStore) List(context.Context) ([]model.NavItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeNavStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.NavItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeNavStore) HasChildren(_ context.Context, id primitive.ObjectID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.items {
		if f.items[i].ParentID != nil && *f.items[i].ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNavStore) Create(_ context.Context, item *model.NavItem) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	item.ID = primitive.NewObjectID()
	f.items = append(f.items, *item)
	return item.ID, nil
}

func (f *fakeNavStore) Update(_ context.Context, id primitive.ObjectID, label, path string, order int, parentID *primitive.ObjectID, openNewTab bool) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Label = label
			f.items[i].Path = path
			f.items[i].Order = order
			f.items[i].ParentID = parentID
			f.items[i].OpenNewTab = openNewTab
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeNavStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeUserStore struct {
	users []model.User
	err   error

	reordered []primitive.ObjectID
}

func (f *fakeUserStore) List(context.Context) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.User, len(f.users))
	copy(out, f.users)
	for i := range out {
		out[i].PasswordHash = ""
	}
	return out, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Username == username {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	for i := range f.users {
		if f.users[i].Username == user.Username || (user.Email != "" && f.users[i].Email == user.Email) {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, *user)
	return user.ID, nil
}

func (f *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, p store.UpdateUserParams) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			if p.Name != nil {
				f.users[i].Name = *p.Name
			}
			if p.Email != nil {
				f.users[i].Email = *p.Email
			}
			if p.Phone != nil {
				f.users[i].Phone = *p.Phone
			}
			if p.LineID != nil {
				f.users[i].LineID = *p.LineID
			}
			if p.Role != nil {
				f.users[i].Role = *p.Role
			}
			if p.IsActive != nil {
				f.users[i].IsActive = *p.IsActive
			}
			if p.PasswordHash != nil {
				f.users[i].PasswordHash = *p.PasswordHash
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserStore) Reorder(_ context.Context, ids []primitive.ObjectID) error {
	if f.err != nil {
		return f.err
	}
	f.reordered = ids
	for pos, id := range ids {
		for i := range f.users {
			if f.users[i].ID == id {
				f.users[i].OrderIndex = pos
			}
		}
	}
	return nil
}

// newTestCaches builds a cache manager over the in-memory backend.
func newTestCaches() *cache.Manager {
	return cache.NewManager(cache.ManagerOptions{})
}

// asUser injects an authenticated user into the request context the way
// APIAuth does.
func asUser(r *http.Request, user model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	return r.WithContext(ctx)
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

// chiRequest builds a request with a chi route context carrying URL params.
func chiRequest(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
