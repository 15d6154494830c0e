package service

import (
	"errors"
	"fmt"
	"time"

	"coursell/backend/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrTokenGeneration = errors.New("failed to generate authentication token")
)

// TokenConfig holds one secret and lifetime per principal kind.
type TokenConfig struct {
	UserSecret      string
	AdminSecret     string
	UserExpiration  time.Duration
	AdminExpiration time.Duration
	Issuer          string
}

// TokenService issues and verifies HS256 bearer tokens. A token carries the
// principal kind it was issued for and only verifies as that kind.
type TokenService interface {
	Issue(kind domain.PrincipalKind, id primitive.ObjectID) (string, error)
	Parse(kind domain.PrincipalKind, token string) (primitive.ObjectID, error)
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	PrincipalID string               `json:"uid"`
	Kind        domain.PrincipalKind `json:"kind"`
	jwt.RegisteredClaims
}

type tokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) TokenService {
	if cfg.UserSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if cfg.AdminSecret == "" {
		cfg.AdminSecret = cfg.UserSecret
	}
	if cfg.UserExpiration <= 0 {
		cfg.UserExpiration = time.Hour
	}
	if cfg.AdminExpiration <= 0 {
		cfg.AdminExpiration = 2 * time.Hour
	}
	return &tokenService{cfg: cfg, now: time.Now}
}

func (s *tokenService) settings(kind domain.PrincipalKind) (secret []byte, ttl time.Duration, err error) {
	switch kind {
	case domain.PrincipalUser:
		return []byte(s.cfg.UserSecret), s.cfg.UserExpiration, nil
	case domain.PrincipalAdmin:
		return []byte(s.cfg.AdminSecret), s.cfg.AdminExpiration, nil
	}
	return nil, 0, fmt.Errorf("unknown principal kind %q", kind)
}

func (s *tokenService) Issue(kind domain.PrincipalKind, id primitive.ObjectID) (string, error) {
	secret, ttl, err := s.settings(kind)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := &jwtClaims{
		PrincipalID: id.Hex(),
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", ErrTokenGeneration
	}
	return signed, nil
}

func (s *tokenService) Parse(kind domain.PrincipalKind, tokenString string) (primitive.ObjectID, error) {
	secret, _, err := s.settings(kind)
	if err != nil {
		return primitive.NilObjectID, err
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}
	if claims.Kind != kind {
		return primitive.NilObjectID, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.PrincipalID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}
