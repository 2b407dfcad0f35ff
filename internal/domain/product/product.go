package product

import "github.com/shopspring/decimal"

type Product struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Stock          int64            `json:"stock"`
	ImageURL       string           `json:"image_url"`
	Category       string           `json:"category,omitempty"`
}

// HasDiscount reports whether the compare-at price should be shown struck
// through next to the current price.
func (p Product) HasDiscount() bool {
	return p.CompareAtPrice != nil && p.CompareAtPrice.GreaterThan(p.Price)
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type ListFilter struct {
	Search   string
	Category string
}

type StockChange struct {
	ProductID string
	Quantity  int64
}
