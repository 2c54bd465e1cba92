package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wichananm65/estote-backend/internal/good"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database/postgres"
)

type PostgresRepository struct {
	db *sql.DB
	tx database.Transactor
}

const (
	upsertCartQuery = `
		INSERT INTO carts (user_id, updated_at)
		VALUES ($1, now())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id
	`
	updateCartQuery = `
		UPDATE carts SET user_id = $2, updated_at = now()
		WHERE id = $1
	`
	deleteCartGoodsQuery = `DELETE FROM cart_goods WHERE cart_id = $1`
	insertCartGoodsQuery = `
		INSERT INTO cart_goods (cart_id, position, good_id)
		SELECT $1, ord - 1, good_id
		FROM unnest($2::bigint[]) WITH ORDINALITY AS t(good_id, ord)
	`
	getCartByIDQuery     = `SELECT id, user_id FROM carts WHERE id = $1`
	getCartByUserIDQuery = `SELECT id, user_id FROM carts WHERE user_id = $1`
	getCartItemsQuery    = `
		SELECT g.id, g.name, g.cost_before_sale, g.sale
		FROM cart_goods cg
		JOIN goods g ON g.id = cg.good_id
		WHERE cg.cart_id = $1
		ORDER BY cg.position
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, tx: postgres.NewTransactor(db)}
}

// Save writes the cart row and replaces its items in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, c Cart) (Cart, error) {
	ids := make([]int64, len(c.Items))
	for i, g := range c.Items {
		ids[i] = g.ID
	}

	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		conn := postgres.Conn(ctx, r.db)
		if c.ID == 0 {
			if err := conn.QueryRowContext(ctx, upsertCartQuery, c.UserID).Scan(&c.ID); err != nil {
				return fmt.Errorf("upsert cart: %w", err)
			}
		} else {
			res, err := conn.ExecContext(ctx, updateCartQuery, c.ID, c.UserID)
			if err != nil {
				return fmt.Errorf("update cart %d: %w", c.ID, err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return ErrNotFound
			}
		}

		if _, err := conn.ExecContext(ctx, deleteCartGoodsQuery, c.ID); err != nil {
			return fmt.Errorf("clear cart %d items: %w", c.ID, err)
		}
		if len(ids) == 0 {
			return nil
		}
		if _, err := conn.ExecContext(ctx, insertCartGoodsQuery, c.ID, pq.Array(ids)); err != nil {
			return fmt.Errorf("insert cart %d items: %w", c.ID, err)
		}
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return clone(c), nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Cart, error) {
	return r.load(ctx, getCartByIDQuery, id)
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) (Cart, error) {
	return r.load(ctx, getCartByUserIDQuery, userID)
}

func (r *PostgresRepository) load(ctx context.Context, query string, arg int64) (Cart, error) {
	conn := postgres.Conn(ctx, r.db)

	var c Cart
	if err := conn.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, err
	}

	rows, err := conn.QueryContext(ctx, getCartItemsQuery, c.ID)
	if err != nil {
		return Cart{}, err
	}
	defer rows.Close()

	c.Items = make([]good.Good, 0)
	for rows.Next() {
		var g good.Good
		if err := rows.Scan(&g.ID, &g.Name, &g.CostBeforeSale, &g.Sale); err != nil {
			return Cart{}, err
		}
		c.Items = append(c.Items, g)
	}
	return c, rows.Err()
}
