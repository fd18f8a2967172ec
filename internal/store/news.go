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

// NewsStore provides access to the news collection.
type NewsStore struct {
	c *mongo.Collection
}

// ListNewsParams controls news listing.
type ListNewsParams struct {
	Skip          int64
	Limit         int64
	PublishedOnly bool
	// ListView trims the projection for index pages: content is excluded
	// and image arrays are truncated to their first element.
	ListView bool
}

// List returns news posts sorted by creation time, newest first.
func (s *NewsStore) List(ctx context.Context, p ListNewsParams) ([]model.NewsPost, error) {
	filter := bson.M{}
	if p.PublishedOnly {
		filter["published"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}
	if p.ListView {
		opts.SetProjection(bson.M{
			"content":            0,
			"images":             bson.M{"$slice": 1},
			"announcementImages": bson.M{"$slice": 1},
		})
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing news: %w", err)
	}

	var posts []model.NewsPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decoding news: %w", err)
	}
	return posts, nil
}

// Count returns the number of news posts matching the published filter.
func (s *NewsStore) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	return s.c.CountDocuments(ctx, filter)
}

// GetByID fetches a single news post.
func (s *NewsStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.NewsPost, error) {
	var post model.NewsPost
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

// Create inserts a new post, stamping the creation timestamp server-side.
// A client-supplied id is never trusted.
func (s *NewsStore) Create(ctx context.Context, post *model.NewsPost) (primitive.ObjectID, error) {
	post.ID = primitive.NilObjectID
	post.CreatedAt = time.Now().UTC()
	post.Category = post.PrimaryCategory()
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.AnnouncementImages == nil {
		post.AnnouncementImages = []string{}
	}
	if post.Links == nil {
		post.Links = []model.NewsLink{}
	}
	if post.VideoEmbeds == nil {
		post.VideoEmbeds = []string{}
	}

	res, err := s.c.InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting news: %w", mapError(err))
	}

	id := res.InsertedID.(primitive.ObjectID)
	post.ID = id
	return id, nil
}

// UpdateNewsParams carries the fields of a news update. Nil pointers mean
// "leave unchanged"; the update timestamp is always re-stamped.
type UpdateNewsParams struct {
	Title              *string
	Categories         []string
	Content            *string
	Images             []string
	AnnouncementImages []string
	Links              []model.NewsLink
	VideoEmbeds        []string
	Published          *bool
}

// Update merges the given fields into an existing post.
func (s *NewsStore) Update(ctx context.Context, id primitive.ObjectID, p UpdateNewsParams) error {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Categories != nil {
		set["categories"] = p.Categories
		if len(p.Categories) > 0 {
			set["category"] = p.Categories[0]
		}
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Images != nil {
		set["images"] = p.Images
	}
	if p.AnnouncementImages != nil {
		set["announcementImages"] = p.AnnouncementImages
	}
	if p.Links != nil {
		set["links"] = p.Links
	}
	if p.VideoEmbeds != nil {
		set["videoEmbeds"] = p.VideoEmbeds
	}
	if p.Published != nil {
		set["published"] = *p.Published
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("updating news: %w", mapError(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post by id. Deleting a missing post returns ErrNotFound
// and leaves the collection unchanged.
func (s *NewsStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting news: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
