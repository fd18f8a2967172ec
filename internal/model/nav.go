// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NavItem represents a navigation menu entry. Items with a nil ParentID
// are top-level; items pointing at a top-level item render as its dropdown
// children. Only one level of nesting is allowed, which the API enforces
// at write time.
type NavItem struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Label      string              `bson:"label" json:"label"`
	Path       string              `bson:"path" json:"path"`
	Order      int                 `bson:"order" json:"order"`
	ParentID   *primitive.ObjectID `bson:"parentId" json:"parentId"`
	OpenNewTab bool                `bson:"isOpenNewTab,omitempty" json:"isOpenNewTab,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// IsRoot returns true if the item has no parent.
func (n *NavItem) IsRoot() bool {
	return n.ParentID == nil || n.ParentID.IsZero()
}

// NavNode is a navigation item with its resolved children, as rendered
// by the public site.
type NavNode struct {
	NavItem
	Children []NavItem `json:"children"`
}
