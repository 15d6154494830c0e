package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/events"
	"coursell/backend/internal/metrics"
	"coursell/backend/internal/repository"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrAlreadyPurchased = errors.New("course already purchased")

// PurchasedCourse is a purchase joined with its course. Course is nil when
// the course has since been deleted.
type PurchasedCourse struct {
	Purchase domain.Purchase
	Course   *domain.Course
}

// PurchaseService records simulated purchases and answers entitlement queries.
type PurchaseService interface {
	Purchase(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error)
	// MyCourses lists the user's purchases, newest first.
	MyCourses(ctx context.Context, userID primitive.ObjectID) ([]PurchasedCourse, error)
	// PurchasedCourses lists the courses behind the user's purchases, skipping deleted ones.
	PurchasedCourses(ctx context.Context, userID primitive.ObjectID) ([]domain.Course, error)
	// Access returns the user's purchase of the course, or nil.
	Access(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	courseRepo   repository.CourseRepository
	publisher    events.Publisher
	log          *zap.Logger
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	courseRepo repository.CourseRepository,
	publisher events.Publisher,
	log *zap.Logger,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		courseRepo:   courseRepo,
		publisher:    publisher,
		log:          log,
	}
}

// Purchase writes a completed Purchase at the current price and enrols the
// user. The two writes are not atomic: when enrolment fails the purchase is
// deleted again, and enrolment itself is idempotent.
func (s *purchaseService) Purchase(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.Published {
		metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		return nil, ErrCourseNotFound
	}

	existing, err := s.Access(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.PurchasesTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyPurchased
	}

	purchase := &domain.Purchase{
		UserID:        userID,
		CourseID:      courseID,
		Amount:        course.Price,
		PaymentStatus: domain.PaymentCompleted, // payment is simulated
	}
	if _, err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.PurchasesTotal.WithLabelValues("duplicate").Inc()
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}

	if err := s.courseRepo.AddEnrolledStudent(ctx, courseID, userID); err != nil {
		metrics.PurchasesTotal.WithLabelValues("compensated").Inc()
		if delErr := s.purchaseRepo.Delete(ctx, purchase.ID); delErr != nil {
			s.log.Error("purchase compensation failed",
				zap.String("purchase_id", purchase.ID.Hex()), zap.Error(delErr))
		}
		return nil, fmt.Errorf("enrol user: %w", err)
	}
	metrics.PurchasesTotal.WithLabelValues("completed").Inc()

	reqID := events.RequestID(ctx)
	event := events.PurchaseCompleted{
		PurchaseID:   purchase.ID,
		UserID:       userID,
		CourseID:     courseID,
		Amount:       purchase.Amount,
		PurchaseDate: purchase.PurchaseDate,
	}
	if err := s.publisher.Publish(ctx, events.PurchaseCompletedKey, event, reqID); err != nil {
		s.log.Warn("event publish failed", zap.String("key", events.PurchaseCompletedKey),
			zap.String("request_id", reqID), zap.Error(err))
	}
	return purchase, nil
}

func (s *purchaseService) coursesFor(ctx context.Context, purchases []domain.Purchase) (map[primitive.ObjectID]domain.Course, error) {
	ids := make([]primitive.ObjectID, 0, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.CourseID)
	}
	courses, err := s.courseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Course, len(courses))
	for _, c := range courses {
		c.Videos = nil
		c.Content = ""
		byID[c.ID] = c
	}
	return byID, nil
}

func (s *purchaseService) MyCourses(ctx context.Context, userID primitive.ObjectID) ([]PurchasedCourse, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.coursesFor(ctx, purchases)
	if err != nil {
		return nil, err
	}

	out := make([]PurchasedCourse, 0, len(purchases))
	for _, p := range purchases {
		pc := PurchasedCourse{Purchase: p}
		if c, ok := courses[p.CourseID]; ok {
			pc.Course = &c
		}
		out = append(out, pc)
	}
	return out, nil
}

func (s *purchaseService) PurchasedCourses(ctx context.Context, userID primitive.ObjectID) ([]domain.Course, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.coursesFor(ctx, purchases)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Course, 0, len(purchases))
	for _, p := range purchases {
		if c, ok := courses[p.CourseID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *purchaseService) Access(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error) {
	p, err := s.purchaseRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
