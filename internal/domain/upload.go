package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload stores metadata about a course asset (image or video) that an admin
// uploads straight to object storage. The file itself lives in S3.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID    primitive.ObjectID `bson:"courseId" json:"courseId"`
	AdminID     primitive.ObjectID `bson:"adminId" json:"adminId"`
	ObjectKey   string             `bson:"objectKey" json:"objectKey"` // Unique key in the bucket
	FileName    string             `bson:"fileName" json:"fileName"`   // Original filename provided by the admin
	ContentType string             `bson:"contentType" json:"contentType"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
