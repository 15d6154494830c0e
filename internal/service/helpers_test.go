package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"coursell/backend/internal/repository/memory"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordedEvent struct {
	Key   string
	Event any
	ReqID string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, event any, reqID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Key: key, Event: event, ReqID: reqID})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := []string{}
	for _, e := range p.events {
		keys = append(keys, e.Key)
	}
	return keys
}

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://bucket.test/put/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://bucket.test/get/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// failingEnrolRepo fails every enrolment write.
type failingEnrolRepo struct {
	repository.CourseRepository
}

func (failingEnrolRepo) AddEnrolledStudent(ctx context.Context, courseID, userID primitive.ObjectID) error {
	return errors.New("write conflict")
}

type fixture struct {
	users     repository.UserRepository
	admins    repository.AdminRepository
	courses   repository.CourseRepository
	purchases repository.PurchaseRepository
	uploads   repository.UploadRepository
	tokens    TokenService
	publisher *recordingPublisher
	storage   *fakeStorage
	auth      AuthService
	adminSvc  AdminService
	courseSvc CourseService
	purchase  PurchaseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	f := &fixture{
		users:     memory.NewUserRepository(db),
		admins:    memory.NewAdminRepository(db),
		courses:   memory.NewCourseRepository(db),
		purchases: memory.NewPurchaseRepository(db),
		uploads:   memory.NewUploadRepository(db),
		publisher: &recordingPublisher{},
		storage:   &fakeStorage{},
	}
	f.tokens = NewTokenService(TokenConfig{UserSecret: "user-secret", AdminSecret: "admin-secret", Issuer: "test"})
	log := zap.NewNop()
	f.auth = NewAuthService(f.users, f.tokens, f.publisher, log)
	f.adminSvc = NewAdminService(f.admins, f.tokens)
	f.courseSvc = NewCourseService(f.courses, f.admins, f.purchases, f.uploads, f.storage, log)
	f.purchase = NewPurchaseService(f.purchases, f.courses, f.publisher, log)
	return f
}

func (f *fixture) admin(t *testing.T, username string) *domain.Admin {
	t.Helper()
	a, err := f.adminSvc.Signup(context.Background(), username, "secret1")
	require.NoError(t, err)
	return a
}

func (f *fixture) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.auth.Signup(context.Background(), SignupInput{Email: email, Password: "secret1", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	return u
}

func (f *fixture) course(t *testing.T, adminID primitive.ObjectID, title string, published bool) *domain.Course {
	t.Helper()
	c, err := f.courseSvc.Create(context.Background(), adminID, CourseInput{
		Title: title, Description: "d", Price: 49.5, ImageLink: "https://img.test/a.png", Published: &published,
		Content: "lesson notes",
	})
	require.NoError(t, err)
	return c
}
