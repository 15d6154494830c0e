package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Purchase is the only record that entitles a user to a course's gated content.
// (UserID, CourseID) is unique.
type Purchase struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	CourseID      primitive.ObjectID `bson:"courseId" json:"courseId"`
	Amount        float64            `bson:"amount" json:"amount"` // Course price at purchase time
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PurchaseDate  time.Time          `bson:"purchaseDate" json:"purchaseDate"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
