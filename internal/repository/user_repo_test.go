package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"users-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*UserSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewUserSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func testUser() *models.User {
	return &models.User{
		Username:  "michael",
		Email:     "michael@realpython.com",
		Password:  "$2a$10$digest",
		Active:    true,
		CreatedAt: time.Date(2017, 11, 7, 21, 10, 10, 0, time.UTC),
	}
}

const testCreatedAtStr = "2017-11-07 21:10:10"

func TestUserSQLite_Insert(t *testing.T) {
	tests := []struct {
		name           string
		mockExpect     func(sqlmock.Sqlmock)
		wantID         int
		wantErr        error
		errContainsStr string
	}{
		{
			name: "success",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("michael", "michael@realpython.com", "$2a$10$digest", true, testCreatedAtStr).
					WillReturnResult(sqlmock.NewResult(42, 1))
				m.ExpectCommit()
			},
			wantID: 42,
		},
		{
			name: "duplicate username rolls back",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("michael", "michael@realpython.com", "$2a$10$digest", true, testCreatedAtStr).
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))
				m.ExpectRollback()
			},
			wantErr: ErrDuplicateUsername,
		},
		{
			name: "duplicate email rolls back",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("michael", "michael@realpython.com", "$2a$10$digest", true, testCreatedAtStr).
					WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))
				m.ExpectRollback()
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name: "exec error rolls back",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("michael", "michael@realpython.com", "$2a$10$digest", true, testCreatedAtStr).
					WillReturnError(errors.New("db exec failed"))
				m.ExpectRollback()
			},
			errContainsStr: "insert user",
		},
		{
			name: "begin error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(errors.New("begin failed"))
			},
			errContainsStr: "begin insert user",
		},
		{
			name: "last insert id error rolls back",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
					WithArgs("michael", "michael@realpython.com", "$2a$10$digest", true, testCreatedAtStr).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("no last id")))
				m.ExpectRollback()
			},
			errContainsStr: "get last insert id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			id, err := repo.Insert(context.Background(), testUser())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if tt.errContainsStr != "" {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				if id != 0 {
					t.Fatalf("expected id=0 on error, got %d", id)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Fatalf("unexpected id: want %d, got %d", tt.wantID, id)
			}
		})
	}
}

func userRows(users ...*models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password", "active", "created_at"})
	for i, u := range users {
		id := u.ID
		if id == 0 {
			id = i + 1
		}
		rows.AddRow(id, u.Username, u.Email, u.Password, u.Active, u.CreatedAt)
	}
	return rows
}

func TestUserSQLite_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		mockExpect     func(sqlmock.Sqlmock)
		wantUser       bool
		wantErr        bool
		errContainsStr string
	}{
		{
			name: "found",
			mockExpect: func(m sqlmock.Sqlmock) {
				u := testUser()
				u.ID = 7
				m.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
					WithArgs(7).
					WillReturnRows(userRows(u))
			},
			wantUser: true,
		},
		{
			name: "not found (ErrNoRows)",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
					WithArgs(7).
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "query error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
					WithArgs(7).
					WillReturnError(errors.New("db query failed"))
			},
			wantErr:        true,
			errContainsStr: "select user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			u, err := repo.GetByID(context.Background(), 7)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantUser {
				if u != nil {
					t.Fatalf("expected nil user, got %+v", u)
				}
				return
			}
			if u == nil {
				t.Fatalf("expected user, got nil")
			}
			if u.ID != 7 || u.Username != "michael" || u.Email != "michael@realpython.com" {
				t.Fatalf("unexpected user: %+v", u)
			}
			if u.Password != "$2a$10$digest" {
				t.Fatalf("expected digest to round-trip, got %q", u.Password)
			}
		})
	}
}

func TestUserSQLite_GetByUsernameAndEmail(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	u := testUser()
	u.ID = 3
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByUsernameSQL)).
		WithArgs("michael").
		WillReturnRows(userRows(u))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmailSQL)).
		WithArgs("missing@realpython.com").
		WillReturnError(sql.ErrNoRows)

	byName, err := repo.GetByUsername(context.Background(), "michael")
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if byName == nil || byName.ID != 3 {
		t.Fatalf("unexpected user: %+v", byName)
	}

	byEmail, err := repo.GetByEmail(context.Background(), "missing@realpython.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if byEmail != nil {
		t.Fatalf("expected nil for missing email, got %+v", byEmail)
	}
}

func TestUserSQLite_List(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	first := testUser()
	first.ID = 1
	second := testUser()
	second.ID = 2
	second.Username = "fletcher"
	second.Email = "fletcher@realpython.com"
	second.CreatedAt = first.CreatedAt.Add(time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(listUsersSQL)).
		WillReturnRows(userRows(first, second))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "michael" || users[1].Username != "fletcher" {
		t.Fatalf("unexpected order: %+v", users)
	}
}

func TestUserSQLite_List_Empty(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(listUsersSQL)).
		WillReturnRows(userRows())

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty list, got %+v", users)
	}
}

func TestClassifyConstraint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"username", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), ErrDuplicateUsername},
		{"email", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), ErrDuplicateEmail},
		{"other constraint", errors.New("NOT NULL constraint failed: users.password"), nil},
		{"unrelated", errors.New("disk I/O error"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyConstraint(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("classifyConstraint(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
