package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/wichananm65/estote-backend/internal/infrastructure/database/postgres"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (order_number, user_id, items, item_count, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	listOrdersByUserQuery = `
		SELECT id, order_number, user_id, items, item_count, total, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	items, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, fmt.Errorf("marshal order items: %w", err)
	}

	err = postgres.Conn(ctx, r.db).QueryRowContext(ctx, insertOrderQuery,
		ord.OrderNumber, ord.UserID, items, ord.Count, ord.Total, ord.Status, ord.CreatedAt,
	).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, listOrdersByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var ord Order
		var items []byte
		if err := rows.Scan(&ord.ID, &ord.OrderNumber, &ord.UserID, &items, &ord.Count, &ord.Total, &ord.Status, &ord.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &ord.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items of order %d: %w", ord.ID, err)
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}
