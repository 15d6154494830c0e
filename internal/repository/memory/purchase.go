package memory

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type purchaseRepository struct {
	db *DB
}

func NewPurchaseRepository(db *DB) repository.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) (primitive.ObjectID, error) {
	if purchase.UserID == primitive.NilObjectID || purchase.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("purchase user ID and course ID are required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.purchases {
		if p.UserID == purchase.UserID && p.CourseID == purchase.CourseID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	purchase.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = now
	}
	purchase.CreatedAt = now
	purchase.UpdatedAt = now

	stored := *purchase
	r.db.purchases[purchase.ID] = &stored
	return purchase.ID, nil
}

func (r *purchaseRepository) GetByUserAndCourse(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.Purchase, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.purchases {
		if p.UserID == userID && p.CourseID == courseID {
			out := *p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Purchase, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	purchases := []domain.Purchase{}
	for _, p := range r.db.purchases {
		if p.UserID == userID {
			purchases = append(purchases, *p)
		}
	}
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].PurchaseDate.After(purchases[j].PurchaseDate)
	})
	return purchases, nil
}

func (r *purchaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.purchases[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.purchases, id)
	return nil
}
