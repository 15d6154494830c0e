package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a course author. Admins live in their own namespace and share
// no identity with users.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Unique
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
