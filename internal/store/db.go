// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store implements the MongoDB persistence layer: connection
// management, index creation, seeding, and one typed store per collection.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollNews      = "news"
	CollPages     = "pages"
	CollNavbar    = "navbar"
	CollUsers     = "users"
	CollSiteStats = "site_stats"
	CollEvents    = "events"
	CollSessions  = "sessions"
)

// ConnectTimeout bounds the initial connection and ping.
const ConnectTimeout = 10 * time.Second

// Connect opens a pooled MongoDB client and verifies the connection with a
// ping. The client is shared for the lifetime of the process and must be
// closed via Disconnect on shutdown.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return client, nil
}

// Store aggregates the per-collection stores over a single database handle.
type Store struct {
	db *mongo.Database

	News   *NewsStore
	Pages  *PageStore
	Nav    *NavStore
	Users  *UserStore
	Stats  *StatsStore
	Events *EventStore
}

// New creates a Store bound to the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		db:     db,
		News:   &NewsStore{c: db.Collection(CollNews)},
		Pages:  &PageStore{c: db.Collection(CollPages)},
		Nav:    &NavStore{c: db.Collection(CollNavbar)},
		Users:  &UserStore{c: db.Collection(CollUsers)},
		Stats:  &StatsStore{c: db.Collection(CollSiteStats)},
		Events: &EventStore{c: db.Collection(CollEvents)},
	}
}

// Database returns the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}
