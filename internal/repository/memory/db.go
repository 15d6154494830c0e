// Package memory keeps every collection in process memory. It backs the
// "memory" database driver used for local development and tests and applies
// the same uniqueness rules as the Mongo indexes.
package memory

import (
	"coursell/backend/internal/domain"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB holds the in-memory collections.
type DB struct {
	mu        sync.RWMutex
	users     map[primitive.ObjectID]*domain.User
	admins    map[primitive.ObjectID]*domain.Admin
	courses   map[primitive.ObjectID]*domain.Course
	purchases map[primitive.ObjectID]*domain.Purchase
	uploads   map[primitive.ObjectID]*domain.Upload
}

func NewDB() *DB {
	return &DB{
		users:     make(map[primitive.ObjectID]*domain.User),
		admins:    make(map[primitive.ObjectID]*domain.Admin),
		courses:   make(map[primitive.ObjectID]*domain.Course),
		purchases: make(map[primitive.ObjectID]*domain.Purchase),
		uploads:   make(map[primitive.ObjectID]*domain.Upload),
	}
}

func copyCourse(c *domain.Course) domain.Course {
	out := *c
	out.Videos = append([]domain.Video{}, c.Videos...)
	out.EnrolledStudents = append([]primitive.ObjectID{}, c.EnrolledStudents...)
	if c.Reviews != nil {
		out.Reviews = append([]domain.Review{}, c.Reviews...)
	}
	return out
}
