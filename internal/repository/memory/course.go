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

type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" || course.CreatorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("course title and creator ID are required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	course.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.Videos == nil {
		course.Videos = []domain.Video{}
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []primitive.ObjectID{}
	}

	stored := copyCourse(course)
	r.db.courses[course.ID] = &stored
	return course.ID, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyCourse(c)
	return &out, nil
}

func (r *courseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	courses := []domain.Course{}
	for _, id := range ids {
		if c, ok := r.db.courses[id]; ok {
			courses = append(courses, copyCourse(c))
		}
	}
	return courses, nil
}

func (r *courseRepository) List(ctx context.Context, filter repository.CourseFilter) ([]domain.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	courses := []domain.Course{}
	for _, c := range r.db.courses {
		if filter.PublishedOnly && !c.Published {
			continue
		}
		if filter.CreatorID != nil && c.CreatorID != *filter.CreatorID {
			continue
		}
		courses = append(courses, copyCourse(c))
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
	return courses, nil
}

// owned returns the stored course when creatorID owns it. Caller holds the lock.
func (r *courseRepository) owned(id, creatorID primitive.ObjectID) (*domain.Course, error) {
	c, ok := r.db.courses[id]
	if !ok || c.CreatorID != creatorID {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	if course.ID == primitive.NilObjectID {
		return errors.New("course ID is required for update")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, err := r.owned(course.ID, course.CreatorID)
	if err != nil {
		return err
	}
	course.UpdatedAt = time.Now().UTC()
	c.Title = course.Title
	c.Description = course.Description
	c.Price = course.Price
	c.Category = course.Category
	c.Level = course.Level
	c.ImageLink = course.ImageLink
	c.Content = course.Content
	c.Published = course.Published
	c.UpdatedAt = course.UpdatedAt
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id, creatorID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, err := r.owned(id, creatorID); err != nil {
		return err
	}
	delete(r.db.courses, id)
	return nil
}

func (r *courseRepository) ReplaceVideos(ctx context.Context, id, creatorID primitive.ObjectID, videos []domain.Video) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, err := r.owned(id, creatorID)
	if err != nil {
		return err
	}
	c.Videos = append([]domain.Video{}, videos...)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *courseRepository) AddEnrolledStudent(ctx context.Context, courseID, userID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, s := range c.EnrolledStudents {
		if s == userID {
			return nil
		}
	}
	c.EnrolledStudents = append(c.EnrolledStudents, userID)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *courseRepository) UpsertReview(ctx context.Context, courseID primitive.ObjectID, review domain.Review) (*domain.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.courses[courseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.UpsertReview(review)
	c.UpdatedAt = time.Now().UTC()
	out := copyCourse(c)
	return &out, nil
}
