package repository

import (
	"context"
	"coursell/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// Update applies the non-nil fields and returns the updated user.
	Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error)
}

// AdminRepository defines the interface for interacting with admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (primitive.ObjectID, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Admin, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// CourseFilter narrows course listings. Zero value lists every course.
type CourseFilter struct {
	PublishedOnly bool
	CreatorID     *primitive.ObjectID
}

// CourseRepository defines the interface for interacting with course data.
// Methods taking a creatorID only match courses owned by that admin and
// return ErrNotFound otherwise.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]domain.Course, error)
	// Update overwrites the editable fields (not videos, enrolment or reviews).
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id, creatorID primitive.ObjectID) error
	ReplaceVideos(ctx context.Context, id, creatorID primitive.ObjectID, videos []domain.Video) error
	// AddEnrolledStudent is idempotent.
	AddEnrolledStudent(ctx context.Context, courseID, userID primitive.ObjectID) error
	// UpsertReview replaces the reviewer's earlier review or appends a new one
	// and recomputes the rating, as one atomic write.
	UpsertReview(ctx context.Context, courseID primitive.ObjectID, review domain.Review) (*domain.Course, error)
}

// PurchaseRepository defines the interface for interacting with purchase records.
type PurchaseRepository interface {
	// Create returns ErrDuplicate when (userId, courseId) already exists.
	Create(ctx context.Context, purchase *domain.Purchase) (primitive.ObjectID, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error)
	// ListByUser returns the user's purchases, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Purchase, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByObjectKey(ctx context.Context, objectKey string) (*domain.Upload, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Upload, error)
}
