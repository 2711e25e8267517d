package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the meeting backend.
const (
	UsersCollection    = "users"
	SessionsCollection = "sessions"
	MeetingsCollection = "meetings"
)

// DB bundles the Mongo client with the application database so callers can
// reach the well-known collections without repeating their names.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a connection, pings it and returns the handle for the given
// database. Caller should call Close when done.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &DB{client: client, db: client.Database(dbName)}, nil
}

func (d *DB) Users() *mongo.Collection    { return d.db.Collection(UsersCollection) }
func (d *DB) Sessions() *mongo.Collection { return d.db.Collection(SessionsCollection) }
func (d *DB) Meetings() *mongo.Collection { return d.db.Collection(MeetingsCollection) }

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
