package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. Creation is
// idempotent, so this runs on every startup.
//
// The unique index on book_series.title is load-bearing: the import path
// delegates series title uniqueness to it instead of locking around
// find-or-create.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"book_series": {
			{
				Keys:    bson.D{{Key: "title", Value: 1}},
				Options: options.Index().SetName("title_unique_idx").SetUnique(true),
			},
		},
		"books": {
			{
				Keys:    bson.D{{Key: "title", Value: 1}},
				Options: options.Index().SetName("title_idx"),
			},
			{
				Keys:    bson.D{{Key: "author", Value: 1}},
				Options: options.Index().SetName("author_idx"),
			},
			{
				Keys:    bson.D{{Key: "isbn", Value: 1}},
				Options: options.Index().SetName("isbn_idx").SetUnique(true).SetSparse(true),
			},
			{
				Keys:    bson.D{{Key: "series_id", Value: 1}},
				Options: options.Index().SetName("series_id_idx"),
			},
		},
		"users": {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("username_unique_idx").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique_idx").SetUnique(true),
			},
		},
		"tv_seasons": {
			{
				Keys:    bson.D{{Key: "show_id", Value: 1}, {Key: "season_number", Value: 1}},
				Options: options.Index().SetName("show_season_idx"),
			},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", coll, err)
		}
	}
	return nil
}
