package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/estote-backend/internal/cart"
	"github.com/wichananm65/estote-backend/internal/good"
)

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	ord := Order{
		OrderNumber: uuid.New(),
		UserID:      10,
		Items: []cart.LineItem{{
			Good:   good.Good{ID: 1, Name: "A", CostBeforeSale: 100, Sale: 50},
			Amount: 2,
			Sum:    decimal.NewFromInt(100),
		}},
		Count:     2,
		Total:     decimal.NewFromInt(100),
		Status:    StatusPlaced,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(ord.OrderNumber, int64(10), sqlmock.AnyArg(), int64(2), sqlmock.AnyArg(), StatusPlaced, ord.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	created, err := NewPostgresRepository(db).Create(context.Background(), ord)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected id 5, got %d", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	number := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	items := `[{"good":{"id":1,"name":"A","costBeforeSale":100,"sale":50},"amount":2,"sum":"100"}]`
	mock.ExpectQuery("FROM orders").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "user_id", "items", "item_count", "total", "status", "created_at"}).
			AddRow(int64(5), number.String(), int64(10), []byte(items), int64(2), "100.00", StatusPlaced, created))

	orders, err := NewPostgresRepository(db).ListByUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	got := orders[0]
	if got.OrderNumber != number || got.Count != 2 || !got.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected order %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Amount != 2 {
		t.Fatalf("unexpected items %+v", got.Items)
	}
}
