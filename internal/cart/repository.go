package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/wichananm65/estote-backend/internal/good"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database/inmemory"
)

var ErrNotFound = errors.New("cart not found")

// Repository persists carts. Save replaces the whole item list; a cart with
// ID 0 is created, or merged into the user's existing cart.
type Repository interface {
	Save(ctx context.Context, c Cart) (Cart, error)
	GetByID(ctx context.Context, id int64) (Cart, error)
	GetByUserID(ctx context.Context, userID int64) (Cart, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	carts  map[int64]Cart
	nextID int64
}

func NewInMemoryRepository(seed []Cart) *InMemoryRepository {
	repo := &InMemoryRepository{
		carts:  make(map[int64]Cart, len(seed)),
		nextID: 1,
	}

	var maxID int64
	for _, c := range seed {
		repo.carts[c.ID] = clone(c)
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) Save(ctx context.Context, c Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		for id, existing := range r.carts {
			if existing.UserID == c.UserID {
				c.ID = id
				break
			}
		}
	}
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}

	prev, existed := r.carts[c.ID]
	r.carts[c.ID] = clone(c)
	inmemory.OnRollback(ctx, func() { r.restore(c.ID, prev, existed) })
	return clone(c), nil
}

func (r *InMemoryRepository) restore(id int64, prev Cart, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existed {
		r.carts[id] = prev
		return
	}
	delete(r.carts, id)
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[id]
	if !ok {
		return Cart{}, ErrNotFound
	}
	return clone(c), nil
}

func (r *InMemoryRepository) GetByUserID(_ context.Context, userID int64) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.carts {
		if c.UserID == userID {
			return clone(c), nil
		}
	}
	return Cart{}, ErrNotFound
}

func clone(c Cart) Cart {
	items := make([]good.Good, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}
