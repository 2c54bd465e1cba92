package good

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound    = errors.New("good not found")
	ErrInvalidGood = errors.New("invalid good")
)

type Repository interface {
	List(ctx context.Context) ([]Good, error)
	GetByID(ctx context.Context, id int64) (Good, error)
	// FindByIDs fetches every distinct id in one round trip. Ids without a
	// matching good are absent from the result; deciding what that means is
	// left to the caller.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]Good, error)
	Create(ctx context.Context, g Good) (Good, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// local runs without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Good
	nextID  int64
}

func NewInMemoryRepository(seed []Good) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Good, 0, len(seed)),
		nextID:  1,
	}

	var maxID int64
	for _, g := range seed {
		r.storage = append(r.storage, g)
		if g.ID > maxID {
			maxID = g.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(_ context.Context) ([]Good, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Good, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (Good, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.storage {
		if g.ID == id {
			return g, nil
		}
	}
	return Good{}, ErrNotFound
}

func (r *InMemoryRepository) FindByIDs(_ context.Context, ids []int64) (map[int64]Good, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[int64]Good, len(wanted))
	for _, g := range r.storage {
		if _, ok := wanted[g.ID]; ok {
			out[g.ID] = g
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(_ context.Context, g Good) (Good, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == 0 {
		g.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, g)
	return g, nil
}
