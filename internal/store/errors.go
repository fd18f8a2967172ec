// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors returned by the stores. Handlers map these onto HTTP
// status codes (404 and 409 respectively).
var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: duplicate unique field")
	ErrInvalidID = errors.New("store: invalid object id")
)

// mapError translates driver errors into the store's sentinel errors.
// Unique-index violations become ErrDuplicate, so callers treat the
// constraint error itself as the conflict signal instead of racing a
// check-then-insert.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// ParseID validates and parses a hex ObjectID. Returns ErrInvalidID for
// malformed input so handlers can answer 400 before touching the database.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
