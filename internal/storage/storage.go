package storage

import (
	"context"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry durations for presigned URLs
const (
	DefaultUploadURLExpiry   = 15 * time.Minute
	DefaultDownloadURLExpiry = time.Hour
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of
	// objectKey with the given content type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET of objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CourseObjectKey builds a unique key for a course asset:
// courses/<courseId>/<uuid>-<sanitized file name>.
func CourseObjectKey(courseID primitive.ObjectID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "file"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return path.Join("courses", courseID.Hex(), uuid.NewString()+"-"+name)
}

// IsCourseObjectKey reports whether key was issued for courseID.
func IsCourseObjectKey(courseID primitive.ObjectID, key string) bool {
	return strings.HasPrefix(key, "courses/"+courseID.Hex()+"/")
}
