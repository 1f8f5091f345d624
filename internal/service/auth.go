// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clarity/clarity/internal/auth"
	"github.com/clarity/clarity/internal/metrics"
	"github.com/clarity/clarity/internal/model"
	"github.com/clarity/clarity/internal/repository"
)

// Service errors.
var (
	ErrMissingRegistrationFields = errors.New("name, email, and password are required")
	ErrMissingCredentials        = errors.New("email and password are required")
	ErrEmailTaken                = errors.New("email is already registered")
	ErrInvalidCredentials        = errors.New("invalid credentials")
)

// WeakPasswordError reports every password policy rule the candidate
// failed, so the caller sees the full list in one round trip.
type WeakPasswordError struct {
	Rules []string
}

func (e *WeakPasswordError) Error() string {
	return "password does not meet requirements"
}

// AuthService handles registration and login.
type AuthService struct {
	repo    *repository.Repository
	tokens  *auth.TokenIssuer
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, tokens *auth.TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		metrics: recorder,
	}
}

// Register creates a new user account and returns the user with a
// signed session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingRegistrationFields
	}

	if unmet := auth.ValidatePassword(password); len(unmet) > 0 {
		return nil, "", &WeakPasswordError{Rules: unmet}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, token, nil
}

// Login verifies credentials and returns the user with a signed
// session token. Unknown email and wrong password produce the same
// error so the response never reveals which one was off.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginAttempt("failed")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginAttempt("failed")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginAttempt("success")

	return user, token, nil
}
