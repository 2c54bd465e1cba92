package good

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/wichananm65/estote-backend/internal/infrastructure/database/postgres"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listGoodsQuery = `
		SELECT id, name, cost_before_sale, sale
		FROM goods
		ORDER BY id
	`
	getGoodByIDQuery = `
		SELECT id, name, cost_before_sale, sale
		FROM goods
		WHERE id = $1
	`
	findGoodsByIDsQuery = `
		SELECT id, name, cost_before_sale, sale
		FROM goods
		WHERE id = ANY($1::bigint[])
	`
	insertGoodQuery = `
		INSERT INTO goods (name, cost_before_sale, sale)
		VALUES ($1, $2, $3)
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Good, error) {
	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, listGoodsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Good, 0)
	for rows.Next() {
		g, err := scanGood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Good, error) {
	g, err := scanGood(postgres.Conn(ctx, r.db).QueryRowContext(ctx, getGoodByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Good{}, ErrNotFound
		}
		return Good{}, err
	}
	return g, nil
}

func (r *PostgresRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]Good, error) {
	out := make(map[int64]Good, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := postgres.Conn(ctx, r.db).QueryContext(ctx, findGoodsByIDsQuery, pq.Array(distinct(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanGood(rows)
		if err != nil {
			return nil, err
		}
		out[g.ID] = g
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, g Good) (Good, error) {
	err := postgres.Conn(ctx, r.db).
		QueryRowContext(ctx, insertGoodQuery, g.Name, g.CostBeforeSale, g.Sale).
		Scan(&g.ID)
	if err != nil {
		return Good{}, err
	}
	return g, nil
}

func scanGood(row rowScanner) (Good, error) {
	var g Good
	if err := row.Scan(&g.ID, &g.Name, &g.CostBeforeSale, &g.Sale); err != nil {
		return Good{}, err
	}
	return g, nil
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
