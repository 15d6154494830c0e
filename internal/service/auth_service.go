package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/events"
	"coursell/backend/internal/repository"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrUserNotFound         = errors.New("user not found")
)

// SignupInput carries a new user's account details. Password is plain text.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate carries the optional fields of a profile change.
// Password is plain text and re-hashed before storage.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// AuthService manages user accounts and their sessions.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	// Register is Signup followed by a sign-in.
	Register(ctx context.Context, in SignupInput) (token string, user *domain.User, err error)
	Signin(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileUpdate) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo  repository.UserRepository
	tokens    TokenService
	publisher events.Publisher
	log       *zap.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService, publisher events.Publisher, log *zap.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		log:       log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// Signup handles new user registration.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index catches a concurrent signup with the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.publish(ctx, events.UserRegisteredKey, events.UserRegistered{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
	})

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Register(ctx context.Context, in SignupInput) (string, *domain.User, error) {
	user, err := s.Signup(ctx, in)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(domain.PrincipalUser, user.ID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

// Signin checks the credentials and issues a user token.
func (s *authService) Signin(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(domain.PrincipalUser, user.ID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile changes only the supplied fields.
func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileUpdate) (*domain.User, error) {
	var update domain.UserUpdate
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		update.Email = &email
	}
	if in.FirstName != nil {
		first := strings.TrimSpace(*in.FirstName)
		update.FirstName = &first
	}
	if in.LastName != nil {
		last := strings.TrimSpace(*in.LastName)
		update.LastName = &last
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hashed
	}

	if update.IsEmpty() {
		return s.GetProfile(ctx, userID)
	}

	if update.Email != nil {
		existing, err := s.userRepo.GetByEmail(ctx, *update.Email)
		if err == nil && existing.ID != userID {
			return nil, ErrUserAlreadyExists
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	user, err := s.userRepo.Update(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) publish(ctx context.Context, key string, event any) {
	reqID := events.RequestID(ctx)
	if err := s.publisher.Publish(ctx, key, event, reqID); err != nil {
		s.log.Warn("event publish failed",
			zap.String("key", key), zap.String("request_id", reqID), zap.Error(err))
	}
}
