package service

import (
	"context"
	"coursell/backend/internal/domain"
	"coursell/backend/internal/repository"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminAlreadyExists = errors.New("admin already exists")
	ErrAdminNotFound      = errors.New("admin not found")
)

// AdminService manages admin accounts. Admin and user credentials never mix.
type AdminService interface {
	Signup(ctx context.Context, username, password string) (*domain.Admin, error)
	Signin(ctx context.Context, username, password string) (token string, admin *domain.Admin, err error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	// EnsureAdmin creates the account unless it exists and reports whether it did.
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
	tokens    TokenService
}

func NewAdminService(adminRepo repository.AdminRepository, tokens TokenService) AdminService {
	return &adminService{adminRepo: adminRepo, tokens: tokens}
}

func (s *adminService) Signup(ctx context.Context, username, password string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password cannot be empty")
	}

	_, err := s.adminRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrAdminAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{Username: username, PasswordHash: hashed}
	if _, err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAdminAlreadyExists
		}
		return nil, err
	}

	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) Signin(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(domain.PrincipalAdmin, admin.ID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	admin.PasswordHash = ""
	return token, admin, nil
}

func (s *adminService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return errors.New("password cannot be empty")
	}
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.adminRepo.UpdatePassword(ctx, admin.ID, hashed)
}

func (s *adminService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Signup(ctx, username, password)
	if errors.Is(err, ErrAdminAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
