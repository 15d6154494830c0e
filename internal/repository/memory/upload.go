package memory

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type uploadRepository struct {
	db *DB
}

func NewUploadRepository(db *DB) repository.UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	if upload.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("upload object key is required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.uploads {
		if u.ObjectKey == upload.ObjectKey {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	upload.ID = primitive.NewObjectID()
	upload.CreatedAt = time.Now().UTC()

	stored := *upload
	r.db.uploads[upload.ID] = &stored
	return upload.ID, nil
}

func (r *uploadRepository) GetByObjectKey(ctx context.Context, objectKey string) (*domain.Upload, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.uploads {
		if u.ObjectKey == objectKey {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *uploadRepository) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Upload, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	uploads := []domain.Upload{}
	for _, u := range r.db.uploads {
		if u.CourseID == courseID {
			uploads = append(uploads, *u)
		}
	}
	sort.SliceStable(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt.After(uploads[j].CreatedAt)
	})
	return uploads, nil
}
