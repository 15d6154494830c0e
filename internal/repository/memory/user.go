package memory

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range r.db.users {
		if u.Email == email && id != except {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("user email and password hash are required")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.emailTaken(user.Email, primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.db.users[user.ID] = &stored
	return user.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Email != nil {
		if r.emailTaken(*update.Email, id) {
			return nil, repository.ErrDuplicate
		}
		u.Email = *update.Email
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()

	out := *u
	return &out, nil
}
