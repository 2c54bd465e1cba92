package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/wichananm65/estote-backend/internal/good"
)

func TestPostgresSave_NewCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO carts").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec("DELETE FROM cart_goods").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO cart_goods").
		WithArgs(int64(3), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewPostgresRepository(db)
	saved, err := repo.Save(context.Background(), Cart{UserID: 10, Items: []good.Good{goodA, goodA}})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if saved.ID != 3 || len(saved.Items) != 2 {
		t.Fatalf("unexpected cart %+v", saved)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSave_ClearSkipsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE carts").
		WithArgs(int64(3), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_goods").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	_, err = NewPostgresRepository(db).Save(context.Background(), Cart{ID: 3, UserID: 10, Items: []good.Good{}})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSave_RollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE carts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_goods").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO cart_goods").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	_, err = NewPostgresRepository(db).Save(context.Background(), Cart{ID: 3, UserID: 10, Items: []good.Good{goodB}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM carts WHERE user_id").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(int64(3), int64(10)))
	mock.ExpectQuery("FROM cart_goods").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cost_before_sale", "sale"}).
			AddRow(int64(2), "B", int64(200), int64(100)).
			AddRow(int64(1), "A", int64(100), int64(50)).
			AddRow(int64(2), "B", int64(200), int64(100)))

	c, err := NewPostgresRepository(db).GetByUserID(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if got := ids(c.Items); len(got) != 3 || got[0] != 2 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("unexpected item order %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByUserID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM carts WHERE user_id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	_, err = NewPostgresRepository(db).GetByUserID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
