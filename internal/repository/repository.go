package repository

import (
	"context"
	"database/sql"

	"users-service/internal/models"
	"users-service/internal/repository/db"
)

// Users provides durable storage and uniqueness enforcement for user rows.
// Lookups return (nil, nil) when no row matches.
type Users interface {
	// Insert persists a new user in a single transaction and returns the
	// assigned id. UNIQUE violations come back as ErrDuplicateUsername or
	// ErrDuplicateEmail.
	Insert(ctx context.Context, u *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns all users ordered by created_at ascending, ties broken
	// by id ascending.
	List(ctx context.Context) ([]models.User, error)
}

type Repository struct {
	Users Users
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(sqlDB),
	}
}

// InitDB opens the SQLite database at path and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
