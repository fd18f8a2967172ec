// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth   = "auth"
	EventCategoryNews   = "news"
	EventCategoryPage   = "page"
	EventCategoryNav    = "navbar"
	EventCategoryUser   = "user"
	EventCategoryCache  = "cache"
	EventCategorySystem = "system"
)

// Event is an audit log entry. Events are written by the slog bridge for
// WARN+ records and directly by security-relevant handlers.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Level     string              `bson:"level" json:"level"`
	Category  string              `bson:"category" json:"category"`
	Message   string              `bson:"message" json:"message"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Metadata  map[string]string   `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
