package product

import (
	"context"
	"strings"

	domcategory "example.com/loja/internal/domain/category"
	dom "example.com/loja/internal/domain/product"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*dom.Product{}
	}
	return products, nil
}

// Categories lists the labels of the whole catalog, ignoring any filter.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx, dom.ListFilter{})
	if err != nil {
		return nil, err
	}
	return domcategory.Labels(products), nil
}
