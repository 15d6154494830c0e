package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func videosWithOrders(orders ...int) []Video {
	videos := make([]Video, len(orders))
	for i, o := range orders {
		videos[i] = Video{ID: primitive.NewObjectID(), Title: string(rune('a' + i)), Order: o}
	}
	return videos
}

func orders(videos []Video) []int {
	out := make([]int, len(videos))
	for i, v := range videos {
		out[i] = v.Order
	}
	return out
}

func TestCourse_RemoveVideoRenumbers(t *testing.T) {
	c := &Course{Videos: videosWithOrders(1, 2, 3, 4)}
	second := c.Videos[1].ID

	require.True(t, c.RemoveVideo(second))
	assert.Equal(t, []int{1, 2, 3}, orders(c.Videos))
	assert.Equal(t, -1, c.FindVideo(second))

	assert.False(t, c.RemoveVideo(primitive.NewObjectID()))
	assert.Len(t, c.Videos, 3)
}

func TestCourse_SortVideos(t *testing.T) {
	c := &Course{Videos: videosWithOrders(3, 0, 1, 3)}
	c.SortVideos()

	assert.Equal(t, []int{1, 2, 3, 4}, orders(c.Videos))
	// "c" asked for 1, "b" had no order so it took its position (2),
	// the two 3s keep their input order.
	titles := []string{c.Videos[0].Title, c.Videos[1].Title, c.Videos[2].Title, c.Videos[3].Title}
	assert.Equal(t, []string{"c", "b", "a", "d"}, titles)
}

func TestCourse_UpsertReview(t *testing.T) {
	u1, u2 := primitive.NewObjectID(), primitive.NewObjectID()
	c := &Course{}

	c.UpsertReview(Review{UserID: u1, Rating: 5})
	c.UpsertReview(Review{UserID: u2, Rating: 2})
	assert.InDelta(t, 3.5, c.Rating, 0.001)

	c.UpsertReview(Review{UserID: u2, Rating: 4})
	assert.Len(t, c.Reviews, 2)
	assert.InDelta(t, 4.5, c.Rating, 0.001)
}

func TestCourse_IsCreator(t *testing.T) {
	owner := primitive.NewObjectID()
	c := &Course{CreatorID: owner}
	assert.True(t, c.IsCreator(owner))
	assert.False(t, c.IsCreator(primitive.NewObjectID()))
	assert.False(t, c.IsCreator(primitive.NilObjectID))
}
