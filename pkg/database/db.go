package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI    string
	DBName string
}

func DefaultConfig() Config {
	uri := os.Getenv("COLLECTHUB_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	name := os.Getenv("COLLECTHUB_DB_NAME")
	if name == "" {
		name = "collecthub"
	}

	return Config{URI: uri, DBName: name}
}

func Open(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

func MustOpen(ctx context.Context, cfg Config) *mongo.Client {
	client, err := Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open mongo: %v", err)
	}
	return client
}

func Close(ctx context.Context, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("[database] disconnect error: %v", err)
	}
}
