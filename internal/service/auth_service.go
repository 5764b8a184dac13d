package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"weekly-challenges/internal/auth"
	"weekly-challenges/internal/model"
	"weekly-challenges/internal/repository"
)

// AuthService registers users, logs them in and resolves bearer tokens.
type AuthService struct {
	users     *repository.UserRepository
	tokens    *auth.TokenService
	ttl       time.Duration
	dummyHash string
}

// NewAuthService wires the user directory to the token service. ttl is the
// lifetime of tokens issued by Login.
func NewAuthService(users *repository.UserRepository, tokens *auth.TokenService, ttl time.Duration) (*AuthService, error) {
	// Compared against on unknown emails so both login failures cost one bcrypt check.
	dummy, err := auth.HashPassword("weekly-challenges-dummy")
	if err != nil {
		return nil, err
	}
	return &AuthService{users: users, tokens: tokens, ttl: ttl, dummyHash: dummy}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return nil, err
	}

	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a token whose subject is the email.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("find user: %w", err)
		}
		auth.VerifyPassword(password, s.dummyHash)
		return "", ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Email, s.ttl)
}

// Authenticate validates a bearer token and loads the user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	email, err := s.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
