package memory

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type adminRepository struct {
	db *DB
}

func NewAdminRepository(db *DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) (primitive.ObjectID, error) {
	if admin.Username == "" || admin.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("admin username and password hash are required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.admins {
		if a.Username == admin.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	admin.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	stored := *admin
	r.db.admins[admin.ID] = &stored
	return admin.ID, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, a := range r.db.admins {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *adminRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if a, ok := r.db.admins[id]; ok {
		out := *a
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *adminRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	admins := []domain.Admin{}
	for _, id := range ids {
		if a, ok := r.db.admins[id]; ok {
			admins = append(admins, *a)
		}
	}
	return admins, nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now().UTC()
	return nil
}
