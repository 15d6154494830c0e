package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/events"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignupAndSignin(t *testing.T) {
	f := newFixture(t)
	ctx := events.WithRequestID(context.Background(), "req-42")

	user, err := f.auth.Signup(ctx, SignupInput{Email: " A@B.com ", Password: "secret1", FirstName: "Ada", LastName: "L"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	token, signedIn, err := f.auth.Signin(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	id, err := f.tokens.Parse(domain.PrincipalUser, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.UserRegisteredKey, f.publisher.events[0].Key)
	assert.Equal(t, "req-42", f.publisher.events[0].ReqID)
}

func TestAuthService_DuplicateSignup(t *testing.T) {
	f := newFixture(t)
	f.user(t, "a@b.com")

	_, err := f.auth.Signup(context.Background(), SignupInput{Email: "A@b.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_SigninFailures(t *testing.T) {
	f := newFixture(t)
	f.user(t, "a@b.com")

	_, _, err := f.auth.Signin(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = f.auth.Signin(context.Background(), "nobody@b.com", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	token, user, err := f.auth.Register(context.Background(), SignupInput{Email: "r@b.com", Password: "secret1"})
	require.NoError(t, err)
	id, err := f.tokens.Parse(domain.PrincipalUser, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "a@b.com")
	f.user(t, "taken@b.com")

	first := "Grace"
	updated, err := f.auth.UpdateProfile(ctx, user.ID, ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "B", updated.LastName)

	taken := "TAKEN@b.com"
	_, err = f.auth.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	same := "a@b.com"
	_, err = f.auth.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &same})
	assert.NoError(t, err)

	pw := "newsecret"
	_, err = f.auth.UpdateProfile(ctx, user.ID, ProfileUpdate{Password: &pw})
	require.NoError(t, err)
	_, _, err = f.auth.Signin(ctx, "a@b.com", "newsecret")
	assert.NoError(t, err)
	_, _, err = f.auth.Signin(ctx, "a@b.com", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAdminService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "root")

	_, err := f.adminSvc.Signup(ctx, " root ", "secret1")
	assert.ErrorIs(t, err, ErrAdminAlreadyExists)

	token, signedIn, err := f.adminSvc.Signin(ctx, "root", "secret1")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, signedIn.ID)
	id, err := f.tokens.Parse(domain.PrincipalAdmin, token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, id)

	require.NoError(t, f.adminSvc.ResetPassword(ctx, "root", "changed1"))
	_, _, err = f.adminSvc.Signin(ctx, "root", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = f.adminSvc.Signin(ctx, "root", "changed1")
	assert.NoError(t, err)

	assert.ErrorIs(t, f.adminSvc.ResetPassword(ctx, "ghost", "x"), ErrAdminNotFound)

	created, err := f.adminSvc.EnsureAdmin(ctx, "root", "whatever")
	require.NoError(t, err)
	assert.False(t, created)
	created, err = f.adminSvc.EnsureAdmin(ctx, "second", "secret1")
	require.NoError(t, err)
	assert.True(t, created)
}
