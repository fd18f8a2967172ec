// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ktltc/cms-go/internal/model"
)

// EventStore provides access to the events audit collection.
type EventStore struct {
	c *mongo.Collection
}

// Create inserts an audit event. CreatedAt defaults to now if unset.
func (s *EventStore) Create(ctx context.Context, ev *model.Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// ListEventsParams controls event listing.
type ListEventsParams struct {
	Level    string
	Category string
	Skip     int64
	Limit    int64
}

// List returns events newest first, optionally filtered by level/category.
func (s *EventStore) List(ctx context.Context, p ListEventsParams) ([]model.Event, error) {
	filter := bson.M{}
	if p.Level != "" {
		filter["level"] = p.Level
	}
	if p.Category != "" {
		filter["category"] = p.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var events []model.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return events, nil
}

// PruneOlderThan deletes events created before the cutoff and returns how
// many were removed.
func (s *EventStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return res.DeletedCount, nil
}
