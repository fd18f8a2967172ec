// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ktltc/cms-go/internal/model"
)

// StatsStore provides access to the site_stats collection.
type StatsStore struct {
	c *mongo.Collection
}

// VisitorCount returns the running visitor counter. A missing document
// reads as zero, not as an error.
func (s *StatsStore) VisitorCount(ctx context.Context) (int64, error) {
	var stat model.SiteStat
	err := s.c.FindOne(ctx, bson.M{"_id": model.VisitorCountID}).Decode(&stat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading visitor count: %w", err)
	}
	return stat.Count, nil
}

// IncrementVisitors adds n to the running counter via an upserted $inc.
func (s *StatsStore) IncrementVisitors(ctx context.Context, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": model.VisitorCountID},
		bson.M{"$inc": bson.M{"count": n}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("incrementing visitor count: %w", err)
	}
	return nil
}

// RecordDaily adds page-load and per-country counts to the document for the
// given day (YYYY-MM-DD).
func (s *StatsStore) RecordDaily(ctx context.Context, day string, n int64, countries map[string]int64) error {
	if n <= 0 && len(countries) == 0 {
		return nil
	}

	inc := bson.M{"count": n}
	for code, c := range countries {
		inc["countries."+code] = c
	}

	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": model.DailyStatID(day)},
		bson.M{"$inc": inc},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("recording daily stats: %w", err)
	}
	return nil
}

// Daily returns the stats document for the given day, zero-valued if absent.
func (s *StatsStore) Daily(ctx context.Context, day string) (*model.SiteStat, error) {
	var stat model.SiteStat
	err := s.c.FindOne(ctx, bson.M{"_id": model.DailyStatID(day)}).Decode(&stat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &model.SiteStat{ID: model.DailyStatID(day)}, nil
		}
		return nil, fmt.Errorf("reading daily stats: %w", err)
	}
	return &stat, nil
}
