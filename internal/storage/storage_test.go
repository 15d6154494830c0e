package storage

import (
	"context"
	"coursell/backend/internal/config"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCourseObjectKey(t *testing.T) {
	courseID := primitive.NewObjectID()

	key := CourseObjectKey(courseID, `..\..\intro video (final).mp4`)
	assert.True(t, IsCourseObjectKey(courseID, key))
	assert.True(t, strings.HasSuffix(key, "-intro_video_final_.mp4"), key)
	assert.NotContains(t, key, "..")

	assert.NotEqual(t, key, CourseObjectKey(courseID, `..\..\intro video (final).mp4`))
	assert.True(t, strings.HasSuffix(CourseObjectKey(courseID, "///"), "-file"))
	assert.False(t, IsCourseObjectKey(primitive.NewObjectID(), key))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://s3.test", endpointURL("s3.test", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestS3Storage_PresignsWithoutNetwork(t *testing.T) {
	cfg := config.S3Config{
		Endpoint:        "minio:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "media",
	}
	s, err := NewS3Storage(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	url, err := s.GeneratePresignedUploadURL(context.Background(), "courses/x/a.mp4", "video/mp4", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://minio:9000/media/courses/x/a.mp4?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")

	url, err = s.GeneratePresignedDownloadURL(context.Background(), "courses/x/a.mp4", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=3600")
}
