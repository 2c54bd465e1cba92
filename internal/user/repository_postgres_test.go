package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var userColumns = []string{"id", "username", "password", "enabled", "locked", "account_expired", "credentials_expired", "roles", "cart_id", "created_at"}

func TestPostgresFindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userColumns).
		AddRow(4, "alice", "$2a$hash", true, false, false, false, "{ROLE_USER,ROLE_ADMIN}", 11, now)
	mock.ExpectQuery("FROM users u").WithArgs("alice").WillReturnRows(rows)

	u, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if u.ID != 4 || u.Username != "alice" {
		t.Fatalf("unexpected user %+v", u)
	}
	if len(u.Roles) != 2 || u.Roles[1] != RoleAdmin {
		t.Fatalf("unexpected roles %v", u.Roles)
	}
	if u.CartID == nil || *u.CartID != 11 {
		t.Fatalf("expected cart id 11, got %v", u.CartID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresFindByUsername_NoCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow(5, "bob", "h", true, false, false, false, "{}", nil, time.Now())
	mock.ExpectQuery("FROM users u").WithArgs("bob").WillReturnRows(rows)

	u, err := NewPostgresRepository(db).FindByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if u.CartID != nil {
		t.Fatalf("expected no cart, got %v", *u.CartID)
	}
}

func TestPostgresFindByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users u").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err = NewPostgresRepository(db).FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCreate_DuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err = NewPostgresRepository(db).Create(context.Background(), User{Username: "alice", Password: "h"})
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("WHERE u.id").WithArgs(int64(77)).WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = NewPostgresRepository(db).GetByID(context.Background(), 77)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
