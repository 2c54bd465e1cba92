package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wichananm65/estote-backend/internal/good"
	"github.com/wichananm65/estote-backend/internal/metrics"
	"github.com/wichananm65/estote-backend/internal/user"
)

var ErrGoodNotFound = errors.New("good not found")

// MissingGoodPolicy decides what happens when a requested good id does not
// resolve.
type MissingGoodPolicy int

const (
	FailFast MissingGoodPolicy = iota
	Skip
)

// ParseMissingGoodPolicy accepts "fail" and "skip"; anything else is FailFast.
func ParseMissingGoodPolicy(s string) MissingGoodPolicy {
	if s == "skip" {
		return Skip
	}
	return FailFast
}

type GoodFinder interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]good.Good, error)
}

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (user.User, error)
}

type Service struct {
	repo    Repository
	goods   GoodFinder
	users   UserFinder
	cache   ViewCache
	metrics *metrics.Metrics
	policy  MissingGoodPolicy
	sfg     singleflight.Group
}

type Option func(*Service)

// WithCache enables the read-through view cache. A nil cache is ignored.
func WithCache(c ViewCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithMissingGoodPolicy(p MissingGoodPolicy) Option {
	return func(s *Service) { s.policy = p }
}

func NewService(repo Repository, goods GoodFinder, users UserFinder, opts ...Option) *Service {
	s := &Service{repo: repo, goods: goods, users: users}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCart makes a new cart for u holding the given goods in order and
// links it to u.
func (s *Service) CreateCart(ctx context.Context, u *user.User, goodIDs []int64) (Cart, error) {
	items, err := s.resolve(ctx, goodIDs)
	if err != nil {
		return Cart{}, err
	}

	saved, err := s.save(ctx, Cart{UserID: u.ID, Items: items}, "create")
	if err != nil {
		return Cart{}, err
	}
	id := saved.ID
	u.CartID = &id
	return saved, nil
}

// AddGood appends the resolved goods to c. c is only updated once the new
// item list is stored.
func (s *Service) AddGood(ctx context.Context, c *Cart, goodIDs []int64) error {
	resolved, err := s.resolve(ctx, goodIDs)
	if err != nil {
		return err
	}

	next := *c
	next.Items = make([]good.Good, 0, len(c.Items)+len(resolved))
	next.Items = append(next.Items, c.Items...)
	next.Items = append(next.Items, resolved...)

	saved, err := s.save(ctx, next, "add")
	if err != nil {
		return err
	}
	*c = saved
	return nil
}

// DeleteGood removes the first item with g's id. The cart is saved even
// when g is not in it.
func (s *Service) DeleteGood(ctx context.Context, c *Cart, g good.Good) error {
	next := *c
	next.Items = make([]good.Good, 0, len(c.Items))
	removed := false
	for _, item := range c.Items {
		if !removed && item.ID == g.ID {
			removed = true
			continue
		}
		next.Items = append(next.Items, item)
	}

	saved, err := s.save(ctx, next, "delete")
	if err != nil {
		return err
	}
	*c = saved
	return nil
}

// ClearCart empties c. The cart itself stays linked to its user.
func (s *Service) ClearCart(ctx context.Context, c *Cart) error {
	next := *c
	next.Items = []good.Good{}

	saved, err := s.save(ctx, next, "clear")
	if err != nil {
		return err
	}
	*c = saved
	return nil
}

// GetCartByUser aggregates the cart of username. An unknown user or a user
// without a cart gets an empty view.
func (s *Service) GetCartByUser(ctx context.Context, username string) (View, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return EmptyView(), nil
		}
		return View{}, err
	}

	// detached: a cancelled first caller must not fail the coalesced ones
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sfg.Do(strconv.FormatInt(u.ID, 10), func() (any, error) {
		return s.viewForUser(shared, u.ID)
	})
	if err != nil {
		return View{}, err
	}
	return v.(View), nil
}

func (s *Service) viewForUser(ctx context.Context, userID int64) (View, error) {
	// gen is read before the store so a save that lands in between makes
	// the Set below a no-op
	gen, cacheable := int64(0), false
	if s.cache != nil {
		v, err := s.cache.Get(ctx, userID)
		if err == nil {
			s.metrics.CacheResult("hit")
			return v, nil
		}
		if errors.Is(err, ErrCacheMiss) {
			s.metrics.CacheResult("miss")
		} else {
			s.metrics.CacheResult("error")
			slog.WarnContext(ctx, "cart view cache get", "user_id", userID, "error", err)
		}
		if gen, err = s.cache.Generation(ctx, userID); err != nil {
			slog.WarnContext(ctx, "cart view cache generation", "user_id", userID, "error", err)
		} else {
			cacheable = true
		}
	}

	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return View{}, err
	}
	v := NewView(c.Items)

	if cacheable {
		if err := s.cache.Set(ctx, userID, gen, v); err != nil {
			slog.WarnContext(ctx, "cart view cache set", "user_id", userID, "error", err)
		}
	}
	return v, nil
}

// CartForUser returns the stored cart of username, ErrNotFound when there
// is none.
func (s *Service) CartForUser(ctx context.Context, username string) (Cart, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return Cart{}, err
	}
	return s.repo.GetByUserID(ctx, u.ID)
}

// AddGoodsForUser adds goods to the cart of username, creating the cart on
// the first addition.
func (s *Service) AddGoodsForUser(ctx context.Context, username string, goodIDs []int64) (Cart, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return Cart{}, err
	}

	c, err := s.repo.GetByUserID(ctx, u.ID)
	if errors.Is(err, ErrNotFound) {
		return s.CreateCart(ctx, &u, goodIDs)
	}
	if err != nil {
		return Cart{}, err
	}
	if err := s.AddGood(ctx, &c, goodIDs); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Invalidate drops the cached view of userID.
func (s *Service) Invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		slog.WarnContext(ctx, "cart view cache invalidate", "user_id", userID, "error", err)
	}
}

func (s *Service) save(ctx context.Context, c Cart, op string) (Cart, error) {
	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	s.metrics.CartOp(op)
	s.Invalidate(ctx, saved.UserID)
	return saved, nil
}

// resolve fetches goods in one batch and returns them in request order,
// duplicates included.
func (s *Service) resolve(ctx context.Context, ids []int64) ([]good.Good, error) {
	out := make([]good.Good, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	found, err := s.goods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve goods: %w", err)
	}
	for _, id := range ids {
		g, ok := found[id]
		if !ok {
			if s.policy == Skip {
				continue
			}
			return nil, fmt.Errorf("%w: %d", ErrGoodNotFound, id)
		}
		out = append(out, g)
	}
	return out, nil
}
