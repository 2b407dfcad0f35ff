package order

import "context"

type Repository interface {
	// CreateFromItems prices o.Items from the product store, reserves stock
	// and persists the order atomically.
	CreateFromItems(ctx context.Context, o *Order) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
}

// Submitter sends a checkout to the order service.
type Submitter interface {
	Submit(ctx context.Context, customer Customer, items []Item) (*Receipt, error)
}
