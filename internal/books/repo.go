package books

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collecthub/internal/store"
	"collecthub/pkg/models"
)

// MongoBooks implements BookStore over the books collection.
type MongoBooks struct {
	*store.Repo[models.Book]
}

func NewMongoBooks(db *mongo.Database) *MongoBooks {
	return &MongoBooks{Repo: store.NewRepo[models.Book](db, "books", "title", "author", "genre")}
}

func (r *MongoBooks) Insert(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	return r.Create(ctx, book)
}

func (r *MongoBooks) CountBySeries(ctx context.Context, seriesID primitive.ObjectID) (int64, error) {
	return r.Count(ctx, bson.M{"series_id": seriesID})
}

// TopOfSeries returns the remaining book with the highest volume number.
func (r *MongoBooks) TopOfSeries(ctx context.Context, seriesID primitive.ObjectID) (*models.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "series_number", Value: -1}}).SetLimit(1)
	found, err := r.Find(ctx, bson.M{"series_id": seriesID}, opts)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

func (r *MongoBooks) BySeries(ctx context.Context, seriesID primitive.ObjectID) ([]models.Book, error) {
	return r.Find(ctx, bson.M{"series_id": seriesID})
}

// MongoSeries implements SeriesStore over the book_series collection.
type MongoSeries struct {
	*store.Repo[models.BookSeries]
}

func NewMongoSeries(db *mongo.Database) *MongoSeries {
	return &MongoSeries{Repo: store.NewRepo[models.BookSeries](db, "book_series", "title", "genre")}
}

func (r *MongoSeries) Insert(ctx context.Context, series *models.BookSeries) (primitive.ObjectID, error) {
	return r.Create(ctx, series)
}

func (r *MongoSeries) FindByTitle(ctx context.Context, title string) (*models.BookSeries, error) {
	return r.FindOne(ctx, bson.M{"title": title})
}
