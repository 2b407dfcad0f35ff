package order

import (
	"context"
	"strings"

	domorder "example.com/loja/internal/domain/order"
)

type Service struct {
	repo domorder.Repository
}

func NewService(repo domorder.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*domorder.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domorder.ErrOrderNotFound
	}
	return s.repo.GetByID(ctx, id)
}
