package product

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOutOfStock         = errors.New("product out of stock")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidSortKey     = errors.New("invalid sort key")
)

// Unavailable ties ErrProductNotFound or ErrOutOfStock to the product id
// that caused it.
func Unavailable(id string, cause error) error {
	return fmt.Errorf("product %s: %w", id, cause)
}
