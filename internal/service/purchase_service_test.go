package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/events"
	"coursell/backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestPurchaseService_Purchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.admin(t, "owner")
	buyer := f.user(t, "buyer@b.com")
	c := f.course(t, owner.ID, "Go", true)

	p, err := f.purchase.Purchase(ctx, buyer.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 49.5, p.Amount)
	assert.Equal(t, domain.PaymentCompleted, p.PaymentStatus)
	assert.False(t, p.PurchaseDate.IsZero())

	stored, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{buyer.ID}, stored.EnrolledStudents)

	_, err = f.purchase.Purchase(ctx, buyer.ID, c.ID)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)

	assert.Contains(t, f.publisher.keys(), events.PurchaseCompletedKey)
}

func TestPurchaseService_MissingOrUnpublishedCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.admin(t, "owner")
	buyer := f.user(t, "buyer@b.com")
	draft := f.course(t, owner.ID, "Draft", false)

	_, err := f.purchase.Purchase(ctx, buyer.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = f.purchase.Purchase(ctx, buyer.ID, draft.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestPurchaseService_FailedEnrolmentRemovesPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.admin(t, "owner")
	buyer := f.user(t, "buyer@b.com")
	c := f.course(t, owner.ID, "Go", true)

	svc := NewPurchaseService(f.purchases, failingEnrolRepo{f.courses}, f.publisher, zap.NewNop())
	_, err := svc.Purchase(ctx, buyer.ID, c.ID)
	require.Error(t, err)

	_, err = f.purchases.GetByUserAndCourse(ctx, buyer.ID, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotContains(t, f.publisher.keys(), events.PurchaseCompletedKey)
}

func TestPurchaseService_Listings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.admin(t, "owner")
	buyer := f.user(t, "buyer@b.com")
	kept := f.course(t, owner.ID, "Kept", true)
	gone := f.course(t, owner.ID, "Gone", true)

	_, err := f.purchase.Purchase(ctx, buyer.ID, kept.ID)
	require.NoError(t, err)
	_, err = f.purchase.Purchase(ctx, buyer.ID, gone.ID)
	require.NoError(t, err)
	require.NoError(t, f.courseSvc.Delete(ctx, owner.ID, gone.ID))

	mine, err := f.purchase.MyCourses(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	courses, err := f.purchase.PurchasedCourses(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Kept", courses[0].Title)
	assert.Empty(t, courses[0].Content)

	access, err := f.purchase.Access(ctx, buyer.ID, kept.ID)
	require.NoError(t, err)
	require.NotNil(t, access)
	none, err := f.purchase.Access(ctx, buyer.ID, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, none)
}
