// internal/domain/course.go
package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryDesign      Category = "design"
	CategoryBusiness    Category = "business"
	CategoryMarketing   Category = "marketing"
	CategoryMusic       Category = "music"
	CategoryOther       Category = "other"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Course is a sellable course owned by the admin who created it.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    Category           `bson:"category" json:"category"`
	Level       Level              `bson:"level" json:"level"`
	ImageLink   string             `bson:"imageLink" json:"imageLink"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"` // Text body gated on purchase
	Videos      []Video            `bson:"videos" json:"videos"`
	CreatorID   primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	Published   bool               `bson:"published" json:"published"`

	EnrolledStudents []primitive.ObjectID `bson:"enrolledStudents" json:"enrolledStudents"`
	Rating           float64              `bson:"rating" json:"rating"` // Mean of review ratings, 0 when unrated
	Reviews          []Review             `bson:"reviews,omitempty" json:"reviews,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Video is an embedded lesson. Order is 1-based and contiguous.
type Video struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	VideoURL    string             `bson:"videoUrl" json:"videoUrl"`
	ObjectKey   string             `bson:"objectKey,omitempty" json:"objectKey,omitempty"` // S3 key, resolved to a signed URL on read
	Duration    int                `bson:"duration" json:"duration"`                       // Seconds
	Order       int                `bson:"order" json:"order"`
}

// Review is a purchaser's rating of a course.
type Review struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsCreator reports whether adminID owns the course.
func (c *Course) IsCreator(adminID primitive.ObjectID) bool {
	return adminID != primitive.NilObjectID && c.CreatorID == adminID
}

// FindVideo returns the index of the video with the given id, or -1.
func (c *Course) FindVideo(videoID primitive.ObjectID) int {
	for i := range c.Videos {
		if c.Videos[i].ID == videoID {
			return i
		}
	}
	return -1
}

// RemoveVideo drops the video with the given id and renumbers the rest.
// It reports whether a video was removed.
func (c *Course) RemoveVideo(videoID primitive.ObjectID) bool {
	idx := c.FindVideo(videoID)
	if idx < 0 {
		return false
	}
	c.Videos = append(c.Videos[:idx], c.Videos[idx+1:]...)
	c.RenumberVideos()
	return true
}

// RenumberVideos rewrites Order to 1..N following the current slice order.
func (c *Course) RenumberVideos() {
	for i := range c.Videos {
		c.Videos[i].Order = i + 1
	}
}

// SortVideos orders videos by their requested Order, keeping input position for
// ties and for videos without one, then renumbers them 1..N.
func (c *Course) SortVideos() {
	for i := range c.Videos {
		if c.Videos[i].Order <= 0 {
			c.Videos[i].Order = i + 1
		}
	}
	sort.SliceStable(c.Videos, func(i, j int) bool {
		return c.Videos[i].Order < c.Videos[j].Order
	})
	c.RenumberVideos()
}

// UpsertReview replaces the user's previous review, if any, and recomputes Rating.
func (c *Course) UpsertReview(r Review) {
	replaced := false
	for i := range c.Reviews {
		if c.Reviews[i].UserID == r.UserID {
			c.Reviews[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		c.Reviews = append(c.Reviews, r)
	}
	c.Rating = averageRating(c.Reviews)
}

func averageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryProgramming, CategoryDesign, CategoryBusiness, CategoryMarketing, CategoryMusic, CategoryOther:
		return true
	}
	return false
}

// IsValidLevel reports whether l is one of the known levels.
func IsValidLevel(l Level) bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}
