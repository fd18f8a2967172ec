// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoleLevel(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{RoleSuperAdmin, 3},
		{RoleAdmin, 2},
		{RoleEditor, 1},
		{"", 0},
		{"viewer", 0},
	}

	for _, tt := range tests {
		if got := RoleLevel(tt.role); got != tt.want {
			t.Errorf("RoleLevel(%q) = %d, want %d", tt.role, got, tt.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	if IsValidRole("root") {
		t.Error(`IsValidRole("root") = true, want false`)
	}
}

func TestUserCanManage(t *testing.T) {
	admin := User{Role: RoleAdmin}
	if !admin.CanManage(RoleEditor) {
		t.Error("admin should manage editor-level resources")
	}
	if admin.CanManage(RoleSuperAdmin) {
		t.Error("admin should not manage super_admin resources")
	}

	super := User{Role: RoleSuperAdmin}
	if !super.IsSuperAdmin() {
		t.Error("IsSuperAdmin() = false for super_admin")
	}
}

func TestNewsPrimaryCategory(t *testing.T) {
	post := NewsPost{Categories: []string{"sports", "events"}, Category: "legacy"}
	if got := post.PrimaryCategory(); got != "sports" {
		t.Errorf("PrimaryCategory() = %q, want sports", got)
	}

	legacy := NewsPost{Category: "legacy"}
	if got := legacy.PrimaryCategory(); got != "legacy" {
		t.Errorf("PrimaryCategory() = %q, want legacy", got)
	}
}

func TestNavItemIsRoot(t *testing.T) {
	root := NavItem{}
	if !root.IsRoot() {
		t.Error("item without parent should be root")
	}

	parent := primitive.NewObjectID()
	child := NavItem{ParentID: &parent}
	if child.IsRoot() {
		t.Error("item with parent should not be root")
	}

	zero := primitive.NilObjectID
	withZero := NavItem{ParentID: &zero}
	if !withZero.IsRoot() {
		t.Error("item with zero parent id should be treated as root")
	}
}

func TestDailyStatID(t *testing.T) {
	if got := DailyStatID("2026-08-28"); got != "daily:2026-08-28" {
		t.Errorf("DailyStatID() = %q", got)
	}
}
