package service

import (
	"context"

	"users-service/internal/models"
	"users-service/internal/repository"
)

// Users exposes the registration and lookup operations behind the HTTP layer.
type Users interface {
	// Create validates the payload, hashes the password and persists the
	// user. Fails with ErrInvalidPayload, ErrDuplicateUsername or
	// ErrDuplicateEmail.
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	// GetByID resolves a raw id path segment to a stored user. Non-numeric,
	// non-positive and unknown ids all fail with ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// List returns every user, ordered by created_at then id, ascending.
	List(ctx context.Context) ([]models.User, error)
}

// CreateUserInput is the decoded registration payload. Password is optional;
// a default is hashed when it is absent.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Users
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository) *Service {
	return &Service{
		Users: NewUserService(repos.Users, NewBcryptHasher()),
	}
}
