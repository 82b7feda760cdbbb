package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ideahunt/backend/pkg/logger"
)

// Open selects the backend exactly once, at startup: try MongoDB with a
// bounded connect+ping, and on any failure fall back to the in-memory store
// for the life of the process. The unreachable-at-boot condition is the one
// error this layer swallows; everything after Open propagates.
func Open(ctx context.Context, uri, database string, timeout time.Duration) Store {
	client, err := connectMongo(ctx, uri, timeout)
	if err != nil {
		logger.Warnf("mongodb unavailable (%v); using in-memory store", err)
		return NewMemory()
	}
	logger.Infof("connected to mongodb, database=%s", database)
	return &mongoStore{db: client.Database(database)}
}

// connectMongo opens a connection and verifies it with a ping, all under one
// deadline so a dead store cannot stall startup.
func connectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
