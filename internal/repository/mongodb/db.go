package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection        = "users"
	accountsCollection     = "accountnumbers"
	transactionsCollection = "transactions"
)

// Config describes how to reach the document store.
type Config struct {
	URL            string
	Name           string
	ConnectTimeout time.Duration
}

// DB owns the process-wide client shared by every repository.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Open connects to MongoDB and verifies the connection with a ping before returning.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("mongodb url is required")
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, errors.New("mongodb database name is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &DB{
		client:   client,
		database: client.Database(cfg.Name),
	}, nil
}

func (d *DB) Database() *mongo.Database {
	return d.database
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}
