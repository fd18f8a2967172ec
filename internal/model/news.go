// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsLink is an external link attached to a news post.
type NewsLink struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

// NewsPost represents a news/announcement article. Content is rich-text
// HTML produced by the dashboard editor and sanitized at write time.
// The `category` field mirrors categories[0] for the benefit of older
// list views that predate multi-category support.
type NewsPost struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title              string             `bson:"title" json:"title"`
	Category           string             `bson:"category" json:"category"`
	Categories         []string           `bson:"categories" json:"categories"`
	Content            string             `bson:"content" json:"content"`
	Images             []string           `bson:"images" json:"images"`
	AnnouncementImages []string           `bson:"announcementImages" json:"announcementImages"`
	Links              []NewsLink         `bson:"links" json:"links"`
	VideoEmbeds        []string           `bson:"videoEmbeds" json:"videoEmbeds"`
	Published          bool               `bson:"published" json:"published"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PrimaryCategory returns categories[0], falling back to the legacy
// single-category field.
func (n *NewsPost) PrimaryCategory() string {
	if len(n.Categories) > 0 {
		return n.Categories[0]
	}
	return n.Category
}
