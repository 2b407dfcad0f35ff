package cart

import "context"

// Store is the durable home of the cart between sessions.
type Store interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}
