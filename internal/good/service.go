package good

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Good, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Good, error) {
	if id <= 0 {
		return Good{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByIDs(ctx context.Context, ids []int64) (map[int64]Good, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, g Good) (Good, error) {
	g.Name = strings.TrimSpace(g.Name)
	switch {
	case g.Name == "":
		return Good{}, fmt.Errorf("%w: name is required", ErrInvalidGood)
	case g.CostBeforeSale < 0:
		return Good{}, fmt.Errorf("%w: costBeforeSale must be >= 0", ErrInvalidGood)
	case g.Sale < 0 || g.Sale > 100:
		return Good{}, fmt.Errorf("%w: sale must be between 0 and 100", ErrInvalidGood)
	}
	g.ID = 0
	return s.repo.Create(ctx, g)
}
