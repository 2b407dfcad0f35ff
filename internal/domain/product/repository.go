package product

import "context"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
}
