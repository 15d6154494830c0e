package service

import (
	"testing"
	"time"

	"coursell/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{UserSecret: "u", AdminSecret: "a"})
	id := primitive.NewObjectID()

	token, err := svc.Issue(domain.PrincipalUser, id)
	require.NoError(t, err)

	got, err := svc.Parse(domain.PrincipalUser, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_KindsDoNotMix(t *testing.T) {
	// Same secret for both kinds: the kind claim alone keeps them apart.
	svc := NewTokenService(TokenConfig{UserSecret: "shared"})
	id := primitive.NewObjectID()

	userToken, err := svc.Issue(domain.PrincipalUser, id)
	require.NoError(t, err)
	adminToken, err := svc.Issue(domain.PrincipalAdmin, id)
	require.NoError(t, err)

	_, err = svc.Parse(domain.PrincipalAdmin, userToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Parse(domain.PrincipalUser, adminToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpiredAndForeign(t *testing.T) {
	svc := NewTokenService(TokenConfig{UserSecret: "u", UserExpiration: time.Hour}).(*tokenService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	expired, err := svc.Issue(domain.PrincipalUser, primitive.NewObjectID())
	require.NoError(t, err)
	_, err = svc.Parse(domain.PrincipalUser, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenService(TokenConfig{UserSecret: "someone-else"})
	foreign, err := other.Issue(domain.PrincipalUser, primitive.NewObjectID())
	require.NoError(t, err)
	_, err = svc.Parse(domain.PrincipalUser, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Parse(domain.PrincipalUser, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
