package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"users-service/internal/models"
	"users-service/internal/repository"
)

// Domain errors for user flows. All map to 4xx responses in the HTTP layer.
var (
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrUserNotFound      = errors.New("user not found")
)

const (
	maxUsernameLen = 128
	maxEmailLen    = 128
	maxPasswordLen = 255

	// hashed when the payload carries no password
	defaultPassword = "greaterthaneight"
)

// UserService handles registration and lookup logic.
type UserService struct {
	repo   repository.Users
	hasher PasswordHasher
}

func NewUserService(repo repository.Users, hasher PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

var _ Users = (*UserService)(nil)

// Create validates the payload, hashes the password and inserts the user.
// Duplicates are prechecked username-first for deterministic messages, but
// the store's UNIQUE constraints stay authoritative: a violation at write
// time maps to the same duplicate errors.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if err := validateCreateInput(username, email, input.Password); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("check username %q: %w", username, err)
	} else if existing != nil {
		return nil, ErrDuplicateUsername
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("check email %q: %w", email, err)
	} else if existing != nil {
		return nil, ErrDuplicateEmail
	}

	password := input.Password
	if password == "" {
		password = defaultPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.repo.Insert(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user %q: %w", username, err)
	}
	u.ID = id
	return u, nil
}

func validateCreateInput(username, email, password string) error {
	if username == "" || email == "" {
		return ErrInvalidPayload
	}
	if len(username) > maxUsernameLen || len(email) > maxEmailLen {
		return ErrInvalidPayload
	}
	if len(password) > maxPasswordLen {
		return ErrInvalidPayload
	}
	return nil
}

// GetByID resolves the raw id segment. A non-numeric or non-positive id is
// indistinguishable from a missing row to the caller.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return nil, ErrUserNotFound
	}
	u, err := s.repo.GetByID(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", n, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List never fails on an empty store; it returns an empty slice so the HTTP
// layer serializes [] rather than null.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
