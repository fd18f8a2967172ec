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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ktltc/cms-go/internal/model"
)

// NavStore provides access to the navbar collection.
type NavStore struct {
	c *mongo.Collection
}

// List returns all navigation items sorted by their explicit order.
func (s *NavStore) List(ctx context.Context) ([]model.NavItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing navbar: %w", err)
	}

	var items []model.NavItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding navbar: %w", err)
	}
	return items, nil
}

// GetByID fetches a single navigation item.
func (s *NavStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.NavItem, error) {
	var item model.NavItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

// HasChildren reports whether any item references the given id as parent.
func (s *NavStore) HasChildren(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"parentId": id})
	if err != nil {
		return false, fmt.Errorf("counting nav children: %w", err)
	}
	return n > 0, nil
}

// Create inserts a navigation item.
func (s *NavStore) Create(ctx context.Context, item *model.NavItem) (primitive.ObjectID, error) {
	item.ID = primitive.NilObjectID
	item.CreatedAt = time.Now().UTC()

	res, err := s.c.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting nav item: %w", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	item.ID = id
	return id, nil
}

// Update replaces label, path, order and parent of an existing item.
func (s *NavStore) Update(ctx context.Context, id primitive.ObjectID, label, path string, order int, parentID *primitive.ObjectID, openNewTab bool) error {
	set := bson.M{
		"label":        label,
		"path":         path,
		"order":        order,
		"parentId":     parentID,
		"isOpenNewTab": openNewTab,
		"updatedAt":    time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("updating nav item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a navigation item. Children keep their stale parentId;
// the tree builder drops them until they are re-assigned.
func (s *NavStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting nav item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
