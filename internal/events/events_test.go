package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPublishing(t *testing.T) {
	id := primitive.NewObjectID()
	msg, err := newPublishing(UserRegistered{UserID: id, Email: "a@b.com", Name: "A B"}, "req-1")
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "req-1", msg.Headers["X-Request-ID"])
	_, err = uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, id.Hex(), decoded["user_id"])
	assert.Equal(t, "a@b.com", decoded["email"])
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestNilRabbitPublisherIsNoop(t *testing.T) {
	var p *RabbitPublisher
	assert.NoError(t, p.Publish(context.Background(), UserRegisteredKey, nil, ""))
	assert.NoError(t, p.Close())
}
