package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"users-service/internal/models"
)

// Sentinel errors for UNIQUE violations on the users table.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, email, password, active, created_at) VALUES (?, ?, ?, ?, ?)`
	selectUserByIDSQL       = `SELECT id, username, email, password, active, created_at FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT id, username, email, password, active, created_at FROM users WHERE username = ?`
	selectUserByEmailSQL    = `SELECT id, username, email, password, active, created_at FROM users WHERE email = ?`
	listUsersSQL            = `SELECT id, username, email, password, active, created_at FROM users ORDER BY created_at ASC, id ASC`
)

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
const timeLayout = "2006-01-02 15:04:05"

// Insert persists a new user inside one transaction so a failed attempt
// never leaves partial session state behind. The UNIQUE constraints are the
// source of truth for duplicates; violations map to the duplicate sentinels.
func (r *UserSQLite) Insert(ctx context.Context, u *models.User) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert user: %w", err)
	}

	res, err := tx.ExecContext(ctx, insertUserSQL,
		u.Username,
		u.Email,
		u.Password,
		u.Active,
		u.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		_ = tx.Rollback()
		if dup := classifyConstraint(err); dup != nil {
			return 0, dup
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}

	lastID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}

	if err := tx.Commit(); err != nil {
		if dup := classifyConstraint(err); dup != nil {
			return 0, dup
		}
		return 0, fmt.Errorf("commit insert user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// classifyConstraint maps a sqlite UNIQUE violation to a duplicate sentinel,
// username before email so the outcome is deterministic when a row collides
// on both. Returns nil for any other error.
func classifyConstraint(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	if strings.Contains(msg, "users.username") {
		return ErrDuplicateUsername
	}
	if strings.Contains(msg, "users.email") {
		return ErrDuplicateEmail
	}
	return nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, selectUserByIDSQL, id)
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserByUsernameSQL, username)
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUserByEmailSQL, email)
}

func (r *UserSQLite) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.Active,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// List returns all users ordered by created_at ascending, id ascending.
func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Active, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		u.CreatedAt = u.CreatedAt.UTC()
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return out, nil
}
