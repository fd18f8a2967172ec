// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain documents stored in MongoDB:
// news posts, static pages, navigation items, users, site statistics
// and audit events.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles, from least to most privileged.
const (
	RoleEditor     = "editor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ValidRoles contains all assignable user roles.
var ValidRoles = []string{RoleEditor, RoleAdmin, RoleSuperAdmin}

// RoleLevel returns a numeric level for the role hierarchy.
// Higher level = more permissions. Unknown roles have level 0.
func RoleLevel(role string) int {
	switch role {
	case RoleSuperAdmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	default:
		return 0
	}
}

// IsValidRole checks whether a role is one of the assignable roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a CMS account. The password hash is stored in the
// `password` field for compatibility with the original collection layout
// and is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	LineID       string             `bson:"lineId,omitempty" json:"lineId,omitempty"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	OrderIndex   int                `bson:"orderIndex" json:"orderIndex"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// IsSuperAdmin returns true if the user has the super_admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// CanManage reports whether the user's role is at or above the given role.
func (u *User) CanManage(minRole string) bool {
	return RoleLevel(u.Role) >= RoleLevel(minRole)
}
