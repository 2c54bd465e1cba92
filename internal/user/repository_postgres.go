package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/wichananm65/estote-backend/internal/infrastructure/database/postgres"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

// uniqueViolation is the SQLSTATE postgres reports for duplicate keys.
const uniqueViolation = "23505"

const (
	selectUserColumns = `
		SELECT u.id, u.username, u.password, u.enabled, u.locked, u.account_expired,
		       u.credentials_expired, u.roles, c.id, u.created_at
		FROM users u
		LEFT JOIN carts c ON c.user_id = u.id
	`
	getUserByUsernameQuery = selectUserColumns + `WHERE u.username = $1`
	getUserByIDQuery       = selectUserColumns + `WHERE u.id = $1`

	insertUserQuery = `
		INSERT INTO users (username, password, enabled, locked, account_expired, credentials_expired, roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (User, error) {
	return r.getOne(ctx, getUserByUsernameQuery, username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (User, error) {
	return r.getOne(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (User, error) {
	user, err := scanUser(postgres.Conn(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	err := postgres.Conn(ctx, r.db).QueryRowContext(
		ctx,
		insertUserQuery,
		user.Username,
		user.Password,
		user.Enabled,
		user.Locked,
		user.AccountExpired,
		user.CredentialsExpired,
		pq.Array(roles),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrUsernameExists
		}
		return User{}, err
	}

	user.Roles = roles
	return user, nil
}

func scanUser(scanner rowScanner) (User, error) {
	var (
		user   User
		roles  pq.StringArray
		cartID sql.NullInt64
	)
	if err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Enabled,
		&user.Locked,
		&user.AccountExpired,
		&user.CredentialsExpired,
		&roles,
		&cartID,
		&user.CreatedAt,
	); err != nil {
		return User{}, err
	}

	user.Roles = []string(roles)
	if user.Roles == nil {
		user.Roles = []string{}
	}
	if cartID.Valid {
		id := cartID.Int64
		user.CartID = &id
	}
	return user, nil
}
