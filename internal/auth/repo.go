package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"collecthub/internal/store"
	"collecthub/pkg/models"
)

// Repo is the Mongo-backed user store.
type Repo struct {
	*store.Repo[models.User]
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{Repo: store.NewRepo[models.User](db, "users", "username", "email", "full_name")}
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	return r.Create(ctx, u)
}

// GetByEmail returns nil without error when no user matches, so handlers
// can keep credential failures indistinguishable.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := r.FindOne(ctx, bson.M{"email": email})
	if err == store.ErrNotFound {
		return nil, nil
	}
	return u, err
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := r.FindOne(ctx, bson.M{"username": strings.TrimSpace(username)})
	if err == store.ErrNotFound {
		return nil, nil
	}
	return u, err
}

func (r *Repo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.Update(ctx, id, bson.M{
		"hashed_password": passwordHash,
		"updated_at":      time.Now().UTC(),
	})
}

func (r *Repo) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, bson.M{"last_login": time.Now().UTC()})
}
