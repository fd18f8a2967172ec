// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. Uniqueness of
// page slugs, usernames and emails is enforced here rather than by
// application-level existence checks, which closes the insert race window.
// CreateMany is idempotent for identical index definitions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type collIndexes struct {
		coll   string
		models []mongo.IndexModel
	}

	all := []collIndexes{
		{
			coll: CollNews,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "createdAt", Value: -1}}},
				{Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}}},
				{Keys: bson.D{{Key: "categories", Value: 1}}},
			},
		},
		{
			coll: CollPages,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "slug", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			coll: CollNavbar,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "order", Value: 1}}},
				{Keys: bson.D{{Key: "parentId", Value: 1}}},
			},
		},
		{
			coll: CollUsers,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "username", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					// Partial: legacy user documents may lack an email entirely
					Keys: bson.D{{Key: "email", Value: 1}},
					Options: options.Index().
						SetUnique(true).
						SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
				},
				{Keys: bson.D{{Key: "orderIndex", Value: 1}, {Key: "createdAt", Value: -1}}},
			},
		},
		{
			coll: CollEvents,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "createdAt", Value: -1}}},
				{Keys: bson.D{{Key: "level", Value: 1}, {Key: "createdAt", Value: -1}}},
			},
		},
	}

	for _, ci := range all {
		if _, err := db.Collection(ci.coll).Indexes().CreateMany(ctx, ci.models); err != nil {
			return fmt.Errorf("creating indexes for %s: %w", ci.coll, err)
		}
	}

	return nil
}
