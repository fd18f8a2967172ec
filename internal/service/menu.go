// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds business logic sitting between handlers and stores.
package service

import (
	"context"

	"github.com/ktltc/cms-go/internal/cache"
	"github.com/ktltc/cms-go/internal/model"
)

// NavLister returns all navbar items ordered by their sort order.
// *store.NavStore satisfies it.
type NavLister interface {
	List(ctx context.Context) ([]model.NavItem, error)
}

// MenuService assembles the flat navbar collection into the two-level tree
// the public site renders. The assembled tree is cached.
type MenuService struct {
	nav    NavLister
	caches *cache.Manager // may be nil
}

// NewMenuService creates a MenuService. caches may be nil to disable caching.
func NewMenuService(nav NavLister, caches *cache.Manager) *MenuService {
	return &MenuService{nav: nav, caches: caches}
}

// Tree returns the navigation tree, from cache when possible.
func (s *MenuService) Tree(ctx context.Context) ([]model.NavNode, error) {
	if s.caches == nil {
		return s.buildTree(ctx)
	}

	tree, err := s.caches.MenuTree.GetOrSet(ctx, cache.KeyMenuTree, func() (*[]model.NavNode, error) {
		t, err := s.buildTree(ctx)
		if err != nil {
			return nil, err
		}
		return &t, nil
	})
	if err != nil {
		return nil, err
	}
	return *tree, nil
}

// Invalidate drops the cached tree. Call after any navbar write.
func (s *MenuService) Invalidate(ctx context.Context) {
	if s.caches != nil {
		s.caches.InvalidateMenu(ctx)
	}
}

func (s *MenuService) buildTree(ctx context.Context) ([]model.NavNode, error) {
	items, err := s.nav.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(items), nil
}

// BuildTree converts the flat, order-sorted item list into root nodes with
// their direct children. Items whose parent is missing or is itself a child
// are dropped: the menu is strictly two levels deep.
func BuildTree(items []model.NavItem) []model.NavNode {
	roots := make([]model.NavNode, 0, len(items))
	rootIndex := make(map[string]int, len(items))

	for _, item := range items {
		if item.IsRoot() {
			rootIndex[item.ID.Hex()] = len(roots)
			roots = append(roots, model.NavNode{NavItem: item, Children: []model.NavItem{}})
		}
	}

	for _, item := range items {
		if item.IsRoot() {
			continue
		}
		idx, ok := rootIndex[item.ParentID.Hex()]
		if !ok {
			continue
		}
		roots[idx].Children = append(roots[idx].Children, item)
	}

	return roots
}
