package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/estote-backend/internal/cart"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database"
	"github.com/wichananm65/estote-backend/internal/metrics"
	"github.com/wichananm65/estote-backend/internal/user"
)

var ErrEmptyCart = errors.New("cart is empty")

type CartService interface {
	CartForUser(ctx context.Context, username string) (cart.Cart, error)
	ClearCart(ctx context.Context, c *cart.Cart) error
	Invalidate(ctx context.Context, userID int64)
}

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (user.User, error)
}

type Service struct {
	orders    Repository
	carts     CartService
	users     UserFinder
	tx        database.Transactor
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(orders Repository, carts CartService, users UserFinder, tx database.Transactor, publisher Publisher, m *metrics.Metrics) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		orders:    orders,
		carts:     carts,
		users:     users,
		tx:        tx,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// PlaceOrder turns the cart of username into an order and empties the
// cart in the same unit of work. The event is published after commit; a
// publish failure does not undo the order.
func (s *Service) PlaceOrder(ctx context.Context, username string) (Order, error) {
	var placed Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.carts.CartForUser(ctx, username)
		if errors.Is(err, cart.ErrNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}

		view := cart.NewView(c.Items)
		if view.Count == 0 {
			return ErrEmptyCart
		}

		placed, err = s.orders.Create(ctx, Order{
			OrderNumber: uuid.New(),
			UserID:      c.UserID,
			Items:       view.Details,
			Count:       view.Count,
			Total:       view.Total,
			Status:      StatusPlaced,
			CreatedAt:   s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.carts.ClearCart(ctx, &c)
	})
	if err != nil {
		return Order{}, err
	}

	// the cart was cleared inside the transaction; drop any view cached
	// before commit
	s.carts.Invalidate(ctx, placed.UserID)
	s.metrics.OrderPlaced()
	slog.InfoContext(ctx, "order placed", "order_number", placed.OrderNumber, "user_id", placed.UserID, "total", placed.Total.String())

	if err := s.publisher.Publish(ctx, placed); err != nil {
		slog.ErrorContext(ctx, "publish order event", "order_number", placed.OrderNumber, "error", err)
	}
	return placed, nil
}

func (s *Service) ListForUser(ctx context.Context, username string) ([]Order, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByUser(ctx, u.ID)
}
