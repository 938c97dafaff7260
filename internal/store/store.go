// Package store provides a generic Mongo-backed repository used by every
// entity collection. One parameterized implementation replaces the
// per-entity CRUD wrappers the API is otherwise made of.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup, update or delete matches nothing.
var ErrNotFound = errors.New("document not found")

// DatabaseError wraps a store operation that failed below the application:
// driver errors, or an insert that produced no usable identifier.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// Repo is a generic repository over one collection. searchFields names the
// document fields Search matches its substring query against.
type Repo[T any] struct {
	coll         *mongo.Collection
	searchFields []string
}

func NewRepo[T any](db *mongo.Database, collection string, searchFields ...string) *Repo[T] {
	return &Repo[T]{coll: db.Collection(collection), searchFields: searchFields}
}

func (r *Repo[T]) Collection() *mongo.Collection { return r.coll }

// Create inserts doc and returns the store-assigned identifier.
func (r *Repo[T]) Create(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, &DatabaseError{Op: "insert " + r.coll.Name(), Err: err}
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, &DatabaseError{Op: "insert " + r.coll.Name(), Err: errors.New("no inserted id returned")}
	}
	return id, nil
}

func (r *Repo[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *Repo[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, &DatabaseError{Op: "find " + r.coll.Name(), Err: err}
	}
	return &doc, nil
}

func (r *Repo[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, &DatabaseError{Op: "find " + r.coll.Name(), Err: err}
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, &DatabaseError{Op: "decode " + r.coll.Name(), Err: err}
	}
	return out, nil
}

func (r *Repo[T]) List(ctx context.Context) ([]T, error) {
	return r.Find(ctx, bson.M{})
}

// Update applies a $set of fields; ErrNotFound when no document matched.
func (r *Repo[T]) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return &DatabaseError{Op: "update " + r.coll.Name(), Err: err}
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return &DatabaseError{Op: "delete " + r.coll.Name(), Err: err}
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, &DatabaseError{Op: "count " + r.coll.Name(), Err: err}
	}
	return n, nil
}

// Search runs a case-insensitive substring match of query over the repo's
// search fields.
func (r *Repo[T]) Search(ctx context.Context, query string) ([]T, error) {
	if len(r.searchFields) == 0 {
		return []T{}, nil
	}
	return r.Find(ctx, SearchFilter(query, r.searchFields))
}

// SearchFilter builds the $or regex filter for a substring search. The query
// is quoted so regex metacharacters in user input match literally.
func SearchFilter(query string, fields []string) bson.M {
	pattern := regexp.QuoteMeta(query)
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}
