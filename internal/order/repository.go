package order

import (
	"context"
	"sort"
	"sync"

	"github.com/wichananm65/estote-backend/internal/infrastructure/database/inmemory"
)

type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	// ListByUser returns the orders of userID, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(ctx context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	ord.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, ord)
	r.mu.Unlock()

	inmemory.OnRollback(ctx, func() { r.remove(ord.ID) })
	return ord, nil
}

func (r *InMemoryRepository) remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ord := range r.orders {
		if ord.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return
		}
	}
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID int64) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
