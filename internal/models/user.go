package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an application account authenticated by email and password.
// HashedPassword never leaves the backend.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	FullName       string             `bson:"fullName" json:"fullName"`
	HashedPassword string             `bson:"hashedPassword" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
