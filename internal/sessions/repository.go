package sessions

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoExpiry is returned when a session without an expiry is handed to a
// repository. Expiry is always assigned by Service.CreateSession; a zero
// value means the caller skipped the service layer.
var ErrNoExpiry = errors.New("session has no expiry")

// Repository persists refresh sessions. GetByRefresh returns (nil, nil) when
// no session matches; reaping of expired sessions is the store's concern
// (Mongo via TTL index, Redis via key TTL), callers still re-check expiry.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByRefresh(ctx context.Context, refresh string) (*Session, error)
	DeleteByRefresh(ctx context.Context, refresh string) error
}

// MongoRepository stores sessions in a collection with a TTL index on
// expiresAt, so Mongo removes stale sessions on its own.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository wraps the given collection and ensures the TTL index
// exists.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, s *Session) error {
	if s.ExpiresAt.IsZero() {
		return ErrNoExpiry
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *MongoRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	var s Session
	err := r.col.FindOne(ctx, bson.M{"refreshToken": refresh}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"refreshToken": refresh})
	return err
}
