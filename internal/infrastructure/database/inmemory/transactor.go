package inmemory

import (
	"context"
	"sync"

	"github.com/wichananm65/estote-backend/internal/infrastructure/database"
)

type undoKey struct{}

type undoLog struct {
	mu  sync.Mutex
	fns []func()
}

// Transactor is used together with the in-memory repositories. Stores
// register compensations with OnRollback; they run newest first when fn
// fails. Concurrent readers may see uncommitted writes.
type Transactor struct{}

var _ database.Transactor = Transactor{}

func NewTransactor() Transactor {
	return Transactor{}
}

func (Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		log.rollback()
		return err
	}
	return nil
}

// OnRollback records undo to run if the surrounding WithinTx fails. Outside
// a unit of work it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	log, ok := ctx.Value(undoKey{}).(*undoLog)
	if !ok {
		return
	}
	log.mu.Lock()
	log.fns = append(log.fns, undo)
	log.mu.Unlock()
}

func (l *undoLog) rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.fns) - 1; i >= 0; i-- {
		l.fns[i]()
	}
	l.fns = nil
}
