package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mongoConnectTimeout = 10 * time.Second
	mongoPingTimeout    = 5 * time.Second
)

// mongoClientOptions applies the credentials only when both are set, so a
// URI carrying its own userinfo is left alone
func mongoClientOptions(uri, username, password string) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout)

	if username != "" && password != "" {
		opts.SetAuth(options.Credential{
			Username: username,
			Password: password,
		})
	}
	return opts
}

// NewMongoClient connects and pings the primary. The client is disconnected
// again when the ping fails.
func NewMongoClient(ctx context.Context, uri, username, password string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, mongoClientOptions(uri, username, password))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB primary: %w", err)
	}

	return client, nil
}

// GetDatabase gets a database from the client
func GetDatabase(client *mongo.Client, name string) *mongo.Database {
	return client.Database(name)
}
