// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ktltc/cms-go/internal/model"
)

// PageStore provides access to the pages collection.
type PageStore struct {
	c *mongo.Collection
}

// List returns all pages.
func (s *PageStore) List(ctx context.Context) ([]model.Page, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	var pages []model.Page
	if err := cur.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("decoding pages: %w", err)
	}
	return pages, nil
}

// GetByID fetches a page by id.
func (s *PageStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Page, error) {
	var page model.Page
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&page); err != nil {
		return nil, mapError(err)
	}
	return &page, nil
}

// GetBySlug fetches a page by its routing slug.
func (s *PageStore) GetBySlug(ctx context.Context, slug string) (*model.Page, error) {
	var page model.Page
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&page); err != nil {
		return nil, mapError(err)
	}
	return &page, nil
}

// Create inserts a new page. A duplicate slug surfaces as ErrDuplicate from
// the unique index; there is no pre-insert existence check.
func (s *PageStore) Create(ctx context.Context, page *model.Page) (primitive.ObjectID, error) {
	page.ID = primitive.NilObjectID
	page.CreatedAt = time.Now().UTC()

	res, err := s.c.InsertOne(ctx, page)
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	page.ID = id
	return id, nil
}

// Update replaces slug, title and content of an existing page. Changing the
// slug to one held by a different page violates the unique index and returns
// ErrDuplicate; re-writing the page's own slug is a no-op for the index.
func (s *PageStore) Update(ctx context.Context, id primitive.ObjectID, slug, title, content string) error {
	set := bson.M{
		"slug":      slug,
		"title":     title,
		"content":   content,
		"updatedAt": time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a page by id.
func (s *PageStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
