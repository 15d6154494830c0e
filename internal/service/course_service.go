package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"coursell/backend/internal/storage"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseNotOwned       = errors.New("course not found or unauthorized")
	ErrVideoNotFound        = errors.New("video not found")
	ErrPurchaseRequired     = errors.New("you must purchase this course to view content")
	ErrInvalidCourse        = errors.New("invalid course data")
	ErrInvalidObjectKey     = errors.New("object key does not belong to this course")
	ErrStorageUnavailable   = errors.New("media storage is not configured")
	ErrUnsupportedMediaType = errors.New("only image and video uploads are allowed")
)

const (
	unknownCreator = "Unknown"
	defaultContent = "This is the course content (e.g., videos, lessons)."
)

// CourseInput is the full set of author-supplied course fields.
type CourseInput struct {
	Title       string
	Description string
	Price       float64
	ImageLink   string
	Published   *bool // Defaults to true
	Category    domain.Category
	Level       domain.Level
	Content     string
}

// CoursePatch changes only its non-nil fields.
type CoursePatch struct {
	Title       *string
	Description *string
	Price       *float64
	ImageLink   *string
	Published   *bool
	Category    *domain.Category
	Level       *domain.Level
	Content     *string
}

type VideoInput struct {
	Title       string
	Description string
	VideoURL    string
	ObjectKey   string
	Duration    int
	Order       int
}

// VideoPatch changes only its non-nil fields.
type VideoPatch struct {
	Title       *string
	Description *string
	VideoURL    *string
	ObjectKey   *string
	Duration    *int
}

// CourseWithCreator pairs a course with its author's username.
type CourseWithCreator struct {
	domain.Course
	Creator string
}

// Viewer identifies who is reading a course. The zero value is anonymous.
type Viewer struct {
	Kind domain.PrincipalKind
	ID   primitive.ObjectID
}

// UploadTicket lets an admin PUT a file straight to object storage.
type UploadTicket struct {
	UploadID  primitive.ObjectID
	UploadURL string
	ObjectKey string
	ExpiresAt time.Time
}

// CourseService covers the public catalog, gated content, reviews and the
// author-side management of courses and their videos.
type CourseService interface {
	// Catalog
	ListPublished(ctx context.Context) ([]domain.Course, error)
	Preview(ctx context.Context) ([]CourseWithCreator, error)
	ListAllWithCreators(ctx context.Context) ([]CourseWithCreator, error)
	GetForViewer(ctx context.Context, courseID primitive.ObjectID, viewer Viewer) (course *domain.Course, hasAccess bool, err error)
	GetContent(ctx context.Context, userID, courseID primitive.ObjectID) (content string, videos []domain.Video, err error)
	AddReview(ctx context.Context, userID, courseID primitive.ObjectID, rating int, comment string) (*domain.Course, error)

	// Management; every method checks that adminID created the course.
	Create(ctx context.Context, adminID primitive.ObjectID, in CourseInput) (*domain.Course, error)
	Update(ctx context.Context, adminID, courseID primitive.ObjectID, patch CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, adminID, courseID primitive.ObjectID) error
	ListByCreator(ctx context.Context, adminID primitive.ObjectID) ([]domain.Course, error)
	GetOwned(ctx context.Context, adminID, courseID primitive.ObjectID) (*domain.Course, error)
	ReplaceVideos(ctx context.Context, adminID, courseID primitive.ObjectID, videos []VideoInput) (*domain.Course, error)
	AddVideo(ctx context.Context, adminID, courseID primitive.ObjectID, in VideoInput) (*domain.Course, error)
	UpdateVideo(ctx context.Context, adminID, courseID, videoID primitive.ObjectID, patch VideoPatch) (*domain.Course, error)
	DeleteVideo(ctx context.Context, adminID, courseID, videoID primitive.ObjectID) error
	CreateUpload(ctx context.Context, adminID, courseID primitive.ObjectID, fileName, contentType string) (*UploadTicket, error)
}

type courseService struct {
	courseRepo   repository.CourseRepository
	adminRepo    repository.AdminRepository
	purchaseRepo repository.PurchaseRepository
	uploadRepo   repository.UploadRepository
	fileStorage  storage.FileStorage // nil when media storage is not configured
	log          *zap.Logger
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	adminRepo repository.AdminRepository,
	purchaseRepo repository.PurchaseRepository,
	uploadRepo repository.UploadRepository,
	fileStorage storage.FileStorage,
	log *zap.Logger,
) CourseService {
	return &courseService{
		courseRepo:   courseRepo,
		adminRepo:    adminRepo,
		purchaseRepo: purchaseRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
		log:          log,
	}
}

// === Catalog ===

func stripGated(c *domain.Course) {
	c.Videos = nil
	c.Content = ""
}

// ListPublished returns published courses without their gated fields.
func (s *courseService) ListPublished(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courseRepo.List(ctx, repository.CourseFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	for i := range courses {
		stripGated(&courses[i])
	}
	return courses, nil
}

func (s *courseService) Preview(ctx context.Context) ([]CourseWithCreator, error) {
	courses, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return s.withCreators(ctx, courses)
}

// ListAllWithCreators returns every course, published or not, without the
// gated fields. Callers are anonymous.
func (s *courseService) ListAllWithCreators(ctx context.Context) ([]CourseWithCreator, error) {
	courses, err := s.courseRepo.List(ctx, repository.CourseFilter{})
	if err != nil {
		return nil, err
	}
	for i := range courses {
		stripGated(&courses[i])
	}
	return s.withCreators(ctx, courses)
}

func (s *courseService) withCreators(ctx context.Context, courses []domain.Course) ([]CourseWithCreator, error) {
	seen := make(map[primitive.ObjectID]bool)
	ids := []primitive.ObjectID{}
	for _, c := range courses {
		if !seen[c.CreatorID] {
			seen[c.CreatorID] = true
			ids = append(ids, c.CreatorID)
		}
	}
	admins, err := s.adminRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(admins))
	for _, a := range admins {
		names[a.ID] = a.Username
	}

	out := make([]CourseWithCreator, 0, len(courses))
	for _, c := range courses {
		name, ok := names[c.CreatorID]
		if !ok {
			name = unknownCreator
		}
		out = append(out, CourseWithCreator{Course: c, Creator: name})
	}
	return out, nil
}

// GetForViewer loads a course and decides whether the viewer may see its
// gated fields. Unpublished courses exist only for their creator.
func (s *courseService) GetForViewer(ctx context.Context, courseID primitive.ObjectID, viewer Viewer) (*domain.Course, bool, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	isCreator := viewer.Kind == domain.PrincipalAdmin && course.IsCreator(viewer.ID)
	if !course.Published && !isCreator {
		return nil, false, ErrCourseNotFound
	}

	hasAccess := isCreator
	if viewer.Kind == domain.PrincipalUser && viewer.ID != primitive.NilObjectID {
		hasAccess, err = s.hasPurchase(ctx, viewer.ID, courseID)
		if err != nil {
			return nil, false, err
		}
	}

	if hasAccess {
		s.resolveVideoURLs(ctx, course.Videos)
	} else {
		stripGated(course)
	}
	return course, hasAccess, nil
}

func (s *courseService) GetContent(ctx context.Context, userID, courseID primitive.ObjectID) (string, []domain.Video, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return "", nil, err
	}
	ok, err := s.hasPurchase(ctx, userID, courseID)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrPurchaseRequired
	}

	content := course.Content
	if content == "" {
		content = defaultContent
	}
	s.resolveVideoURLs(ctx, course.Videos)
	return content, course.Videos, nil
}

// AddReview stores the purchaser's review, replacing an earlier one.
func (s *courseService) AddReview(ctx context.Context, userID, courseID primitive.ObjectID, rating int, comment string) (*domain.Course, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidCourse)
	}
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}
	ok, err := s.hasPurchase(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPurchaseRequired
	}

	course, err := s.courseRepo.UpsertReview(ctx, courseID, domain.Review{
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	stripGated(course)
	return course, nil
}

func (s *courseService) getCourse(ctx context.Context, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) hasPurchase(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	_, err := s.purchaseRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// resolveVideoURLs replaces VideoURL with a signed download URL for videos
// stored in the bucket. Failures keep the stored URL.
func (s *courseService) resolveVideoURLs(ctx context.Context, videos []domain.Video) {
	if s.fileStorage == nil {
		return
	}
	for i := range videos {
		if videos[i].ObjectKey == "" {
			continue
		}
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, videos[i].ObjectKey, storage.DefaultDownloadURLExpiry)
		if err != nil {
			s.log.Warn("could not sign video url", zap.String("key", videos[i].ObjectKey), zap.Error(err))
			continue
		}
		videos[i].VideoURL = url
	}
}

// === Management ===

func validateCourseFields(c *domain.Course) error {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidCourse)
	case c.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidCourse)
	case !domain.IsValidCategory(c.Category):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCourse, c.Category)
	case !domain.IsValidLevel(c.Level):
		return fmt.Errorf("%w: unknown level %q", ErrInvalidCourse, c.Level)
	}
	return nil
}

func (s *courseService) Create(ctx context.Context, adminID primitive.ObjectID, in CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		ImageLink:   strings.TrimSpace(in.ImageLink),
		Category:    in.Category,
		Level:       in.Level,
		Content:     in.Content,
		CreatorID:   adminID,
		Published:   true,
	}
	if in.Published != nil {
		course.Published = *in.Published
	}
	if course.Category == "" {
		course.Category = domain.CategoryProgramming
	}
	if course.Level == "" {
		course.Level = domain.LevelBeginner
	}
	if err := validateCourseFields(course); err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetOwned returns the course when adminID created it, ErrCourseNotOwned otherwise.
func (s *courseService) GetOwned(ctx context.Context, adminID, courseID primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotOwned
		}
		return nil, err
	}
	if !course.IsCreator(adminID) {
		return nil, ErrCourseNotOwned
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, adminID, courseID primitive.ObjectID, patch CoursePatch) (*domain.Course, error) {
	course, err := s.GetOwned(ctx, adminID, courseID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		course.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		course.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		course.Price = *patch.Price
	}
	if patch.ImageLink != nil {
		course.ImageLink = strings.TrimSpace(*patch.ImageLink)
	}
	if patch.Published != nil {
		course.Published = *patch.Published
	}
	if patch.Category != nil {
		course.Category = *patch.Category
	}
	if patch.Level != nil {
		course.Level = *patch.Level
	}
	if patch.Content != nil {
		course.Content = *patch.Content
	}
	if err := validateCourseFields(course); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotOwned
		}
		return nil, err
	}
	return course, nil
}

// Delete removes the course and, best effort, its stored media.
func (s *courseService) Delete(ctx context.Context, adminID, courseID primitive.ObjectID) error {
	course, err := s.GetOwned(ctx, adminID, courseID)
	if err != nil {
		return err
	}
	if err := s.courseRepo.Delete(ctx, courseID, adminID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotOwned
		}
		return err
	}

	if s.fileStorage != nil {
		s.deleteMedia(ctx, course)
	}
	return nil
}

// deleteMedia removes every object referenced by the course's videos or
// issued through its upload tickets. Failures only leave orphans behind.
func (s *courseService) deleteMedia(ctx context.Context, course *domain.Course) {
	keys := []string{}
	seen := map[string]bool{}
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for _, v := range course.Videos {
		add(v.ObjectKey)
	}
	uploads, err := s.uploadRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		s.log.Warn("could not list course uploads", zap.String("course_id", course.ID.Hex()), zap.Error(err))
	}
	for _, u := range uploads {
		add(u.ObjectKey)
	}

	for _, key := range keys {
		if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
			s.log.Warn("orphaned course media", zap.String("course_id", course.ID.Hex()),
				zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *courseService) ListByCreator(ctx context.Context, adminID primitive.ObjectID) ([]domain.Course, error) {
	return s.courseRepo.List(ctx, repository.CourseFilter{CreatorID: &adminID})
}

func (s *courseService) newVideo(ctx context.Context, courseID primitive.ObjectID, in VideoInput) (domain.Video, error) {
	v := domain.Video{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		VideoURL:    strings.TrimSpace(in.VideoURL),
		ObjectKey:   strings.TrimSpace(in.ObjectKey),
		Duration:    in.Duration,
		Order:       in.Order,
	}
	if err := validateVideo(courseID, v); err != nil {
		return domain.Video{}, err
	}
	if err := s.checkUploaded(ctx, courseID, v.ObjectKey); err != nil {
		return domain.Video{}, err
	}
	return v, nil
}

// checkUploaded requires an upload ticket issued for this course behind
// every object key.
func (s *courseService) checkUploaded(ctx context.Context, courseID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	upload, err := s.uploadRepo.GetByObjectKey(ctx, objectKey)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidObjectKey
	}
	if err != nil {
		return err
	}
	if upload.CourseID != courseID {
		return ErrInvalidObjectKey
	}
	return nil
}

func validateVideo(courseID primitive.ObjectID, v domain.Video) error {
	switch {
	case v.Title == "":
		return fmt.Errorf("%w: video title is required", ErrInvalidCourse)
	case v.VideoURL == "" && v.ObjectKey == "":
		return fmt.Errorf("%w: video needs a videoUrl or an objectKey", ErrInvalidCourse)
	case v.Duration < 0:
		return fmt.Errorf("%w: video duration cannot be negative", ErrInvalidCourse)
	case v.ObjectKey != "" && !storage.IsCourseObjectKey(courseID, v.ObjectKey):
		return ErrInvalidObjectKey
	}
	return nil
}

// ReplaceVideos swaps the whole video list. Every video gets a fresh id and
// the list is ordered by the requested order, then numbered 1..N.
func (s *courseService) ReplaceVideos(ctx context.Context, adminID, courseID primitive.ObjectID, inputs []VideoInput) (*domain.Course, error) {
	course, err := s.GetOwned(ctx, adminID, courseID)
	if err != nil {
		return nil, err
	}

	videos := make([]domain.Video, 0, len(inputs))
	for _, in := range inputs {
		v, err := s.newVideo(ctx, courseID, in)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	course.Videos = videos
	course.SortVideos()

	if err := s.saveVideos(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// AddVideo appends one video at the end of the list.
func (s *courseService) AddVideo(ctx context.Context, adminID, courseID primitive.ObjectID, in VideoInput) (*domain.Course, error) {
	course, err := s.GetOwned(ctx, adminID, courseID)
	if err != nil {
		return nil, err
	}
	v, err := s.newVideo(ctx, courseID, in)
	if err != nil {
		return nil, err
	}
	v.Order = len(course.Videos) + 1
	course.Videos = append(course.Videos, v)

	if err := s.saveVideos(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) UpdateVideo(ctx context.Context, adminID, courseID, videoID primitive.ObjectID, patch VideoPatch) (*domain.Course, error) {
	course, err := s.GetOwned(ctx, adminID, courseID)
	if err != nil {
		return nil, err
	}
	idx := course.FindVideo(videoID)
	if idx < 0 {
		return nil, ErrVideoNotFound
	}

	v := course.Videos[idx]
	if patch.Title != nil {
		v.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		v.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.VideoURL != nil {
		v.VideoURL = strings.TrimSpace(*patch.VideoURL)
	}
	if patch.ObjectKey != nil {
		v.ObjectKey = strings.TrimSpace(*patch.ObjectKey)
	}
	if patch.Duration != nil {
		v.Duration = *patch.Duration
	}
	if err := validateVideo(courseID, v); err != nil {
		return nil, err
	}
	if patch.ObjectKey != nil {
		if err := s.checkUploaded(ctx, courseID, v.ObjectKey); err != nil {
			return nil, err
		}
	}
	course.Videos[idx] = v

	if err := s.saveVideos(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteVideo removes a video and renumbers the rest 1..N.
func (s *courseService) DeleteVideo(ctx context.Context, adminID, courseID, videoID primitive.ObjectID) error {
	course, err := s.GetOwned(ctx, adminID, courseID)
	if err != nil {
		return err
	}
	if !course.RemoveVideo(videoID) {
		return ErrVideoNotFound
	}
	return s.saveVideos(ctx, course)
}

func (s *courseService) saveVideos(ctx context.Context, course *domain.Course) error {
	err := s.courseRepo.ReplaceVideos(ctx, course.ID, course.CreatorID, course.Videos)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseNotOwned
	}
	return err
}

// CreateUpload records an upload and signs a PUT URL for it.
func (s *courseService) CreateUpload(ctx context.Context, adminID, courseID primitive.ObjectID, fileName, contentType string) (*UploadTicket, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageUnavailable
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return nil, ErrUnsupportedMediaType
	}
	if _, err := s.GetOwned(ctx, adminID, courseID); err != nil {
		return nil, err
	}

	key := storage.CourseObjectKey(courseID, fileName)
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultUploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	upload := &domain.Upload{
		CourseID:    courseID,
		AdminID:     adminID,
		ObjectKey:   key,
		FileName:    fileName,
		ContentType: contentType,
	}
	id, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}

	return &UploadTicket{
		UploadID:  id,
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(storage.DefaultUploadURLExpiry),
	}, nil
}
