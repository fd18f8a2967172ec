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

// UserStore provides access to the users collection.
type UserStore struct {
	c *mongo.Collection
}

// List returns all users sorted by explicit order index, then newest first.
// The password hash is projected away.
func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "orderIndex", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

// Count returns the number of user documents.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// GetByID fetches a user including the password hash.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetByUsername fetches a user by username, hash included, for login.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// Create inserts a new account. Duplicate usernames and emails violate the
// unique indexes and surface as ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	user.ID = primitive.NilObjectID
	user.CreatedAt = time.Now().UTC()

	res, err := s.c.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	user.ID = id
	return id, nil
}

// UpdateUserParams carries a merge-patch of user fields. Nil means "leave
// unchanged". PasswordHash must already be hashed by the caller; a blank
// submitted password never reaches the store.
type UpdateUserParams struct {
	Name         *string
	Email        *string
	Phone        *string
	LineID       *string
	Role         *string
	IsActive     *bool
	PasswordHash *string
}

// Update merges the given fields into an existing user document, always
// re-stamping the update timestamp.
func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, p UpdateUserParams) error {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.LineID != nil {
		set["lineId"] = *p.LineID
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.IsActive != nil {
		set["isActive"] = *p.IsActive
	}
	if p.PasswordHash != nil {
		set["password"] = *p.PasswordHash
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

// Delete removes a user account.
func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder writes orderIndex = position for every id in the given order,
// as one ordered bulk write rather than independent updates.
func (s *UserStore) Reorder(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(ids))
	for i, id := range ids {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"orderIndex": i, "updatedAt": now}}))
	}

	_, err := s.c.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("reordering users: %w", err)
	}
	return nil
}
