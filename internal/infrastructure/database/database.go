package database

import "context"

// Transactor runs fn as one unit of work. Stores that support transactions
// pick the active transaction up from the context passed to fn; a nested
// WithinTx joins the outer unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
