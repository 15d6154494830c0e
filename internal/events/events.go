// Package events publishes domain events to a message broker. Publication is
// fire-and-forget from the caller's point of view: failures are logged by the
// caller and never fail a request.
package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routing keys.
const (
	UserRegisteredKey    = "user.registered"
	PurchaseCompletedKey = "purchase.completed"
)

type Publisher interface {
	Publish(ctx context.Context, key string, event any, reqID string) error
	Close() error
}

type UserRegistered struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
}

type PurchaseCompleted struct {
	PurchaseID   primitive.ObjectID `json:"purchase_id"`
	UserID       primitive.ObjectID `json:"user_id"`
	CourseID     primitive.ObjectID `json:"course_id"`
	Amount       float64            `json:"amount"`
	PurchaseDate time.Time          `json:"purchase_date"`
}

type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, key string, event any, reqID string) error {
	return nil
}

func (NoopPub) Close() error { return nil }

type requestIDKey struct{}

// WithRequestID stores the request id so publishers deeper in the call chain
// can forward it.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, reqID)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
