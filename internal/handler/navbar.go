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

	"github.com/ktltc/cms-go/internal/model"
	"github.com/ktltc/cms-go/internal/service"
	"github.com/ktltc/cms-go/internal/store"
)

type navRepo interface {
	List(ctx context.Context) ([]model.NavItem, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.NavItem, error)
	HasChildren(ctx context.Context, id primitive.ObjectID) (bool, error)
	Create(ctx context.Context, item *model.NavItem) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, label, path string, order int, parentID *primitive.ObjectID, openNewTab bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NavbarHandler serves the navigation REST endpoints.
type NavbarHandler struct {
	nav  navRepo
	menu *service.MenuService
}

// NewNavbarHandler creates a new NavbarHandler.
func NewNavbarHandler(nav navRepo, menu *service.MenuService) *NavbarHandler {
	return &NavbarHandler{nav: nav, menu: menu}
}

// List handles GET /api/navbar: the flat, order-sorted item list the
// dashboard edits against.
func (h *NavbarHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.nav.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "navbar")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(items))
}

// Tree handles GET /api/navbar/tree: the nested structure the public menu
// renders, served through the menu cache.
func (h *NavbarHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.menu.Tree(r.Context())
	if err != nil {
		writeStoreError(w, err, "navbar")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(tree))
}

type navPayload struct {
	ID         string `json:"_id"`
	Label      string `json:"label"`
	Path       string `json:"path"`
	Order      int    `json:"order"`
	ParentID   string `json:"parentId"`
	OpenNewTab bool   `json:"isOpenNewTab"`
}

// resolveParent turns the payload's parent reference into an ObjectID and
// enforces single-level nesting: the proposed parent must itself be a root.
func (h *NavbarHandler) resolveParent(ctx context.Context, raw string) (*primitive.ObjectID, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, ""
	}
	parentID, err := store.ParseID(raw)
	if err != nil {
		return nil, "invalid parentId"
	}
	parent, err := h.nav.GetByID(ctx, parentID)
	if err != nil {
		return nil, "parent item not found"
	}
	if parent.ParentID != nil {
		return nil, "navigation supports only one level of nesting"
	}
	return &parentID, ""
}

// Create handles POST /api/navbar.
func (h *NavbarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req navPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Label = strings.TrimSpace(req.Label)
	req.Path = strings.TrimSpace(req.Path)
	if req.Label == "" || req.Path == "" {
		writeJSONError(w, http.StatusBadRequest, "label and path are required")
		return
	}

	parentID, msg := h.resolveParent(r.Context(), req.ParentID)
	if msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}

	item := &model.NavItem{
		Label:      req.Label,
		Path:       req.Path,
		Order:      req.Order,
		ParentID:   parentID,
		OpenNewTab: req.OpenNewTab,
	}
	id, err := h.nav.Create(r.Context(), item)
	if err != nil {
		writeStoreError(w, err, "navbar item")
		return
	}

	h.menu.Invalidate(r.Context())
	slog.Info("navbar item created", "category", model.EventCategoryNav, "id", id.Hex(), "label", req.Label)
	writeJSONSuccess(w, map[string]any{"_id": id.Hex()})
}

// Update handles PUT /api/navbar. The target id travels in the body. An
// item that has children cannot be given a parent: that would bury its
// children a level deeper than the menu renders.
func (h *NavbarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req navPayload
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := store.ParseID(req.ID)
	if err != nil {
		writeStoreError(w, err, "navbar item")
		return
	}

	req.Label = strings.TrimSpace(req.Label)
	req.Path = strings.TrimSpace(req.Path)
	if req.Label == "" || req.Path == "" {
		writeJSONError(w, http.StatusBadRequest, "label and path are required")
		return
	}

	parentID, msg := h.resolveParent(r.Context(), req.ParentID)
	if msg != "" {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}
	if parentID != nil {
		if *parentID == id {
			writeJSONError(w, http.StatusBadRequest, "item cannot be its own parent")
			return
		}
		hasChildren, err := h.nav.HasChildren(r.Context(), id)
		if err != nil {
			writeStoreError(w, err, "navbar item")
			return
		}
		if hasChildren {
			writeJSONError(w, http.StatusBadRequest, "item with children cannot be nested under a parent")
			return
		}
	}

	if err := h.nav.Update(r.Context(), id, req.Label, req.Path, req.Order, parentID, req.OpenNewTab); err != nil {
		writeStoreError(w, err, "navbar item")
		return
	}

	h.menu.Invalidate(r.Context())
	writeJSONSuccess(w, nil)
}

// Delete handles DELETE /api/navbar/{id}. Children of a deleted parent
// become orphans and simply stop rendering until re-assigned.
func (h *NavbarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "navbar item")
		return
	}

	if err := h.nav.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "navbar item")
		return
	}

	h.menu.Invalidate(r.Context())
	slog.Info("navbar item deleted", "category", model.EventCategoryNav, "id", id.Hex())
	writeJSONSuccess(w, nil)
}
