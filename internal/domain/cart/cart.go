package cart

import (
	"github.com/shopspring/decimal"

	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
)

// LineItem is one product-and-quantity entry. Stock is the snapshot taken
// when the product was first added and bounds every later quantity edit.
type LineItem struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	Stock    int64           `json:"stock"`
	Qty      int64           `json:"qty"`
}

func (i LineItem) Total() decimal.Decimal {
	return domprice.LineTotal(i.Price, i.Qty)
}

// Cart keeps line items in insertion order, at most one per product id.
type Cart struct {
	items []LineItem
}

// New builds a cart from persisted items. Entries that cannot satisfy
// 1 <= qty <= stock are repaired or dropped, and duplicates are merged.
func New(items []LineItem) *Cart {
	c := &Cart{items: make([]LineItem, 0, len(items))}
	for _, it := range items {
		if it.ID == "" || it.Stock < 1 {
			continue
		}
		if idx := c.index(it.ID); idx >= 0 {
			c.items[idx].Qty = Clamp(c.items[idx].Qty+it.Qty, c.items[idx].Stock)
			continue
		}
		it.Qty = Clamp(it.Qty, it.Stock)
		c.items = append(c.items, it)
	}
	return c
}

// Clamp bounds qty to [1, stock].
func Clamp(qty, stock int64) int64 {
	if qty > stock {
		qty = stock
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

// Add inserts p or grows its existing line. A grown line stays within the
// stock snapshot taken on first add. It reports false and leaves the cart
// untouched when p is nil or out of stock.
func (c *Cart) Add(p *domproduct.Product, requested int64) bool {
	if p == nil || !p.InStock() {
		return false
	}
	qty := Clamp(requested, p.Stock)
	if idx := c.index(p.ID); idx >= 0 {
		line := &c.items[idx]
		line.Qty = Clamp(line.Qty+qty, min(line.Stock, p.Stock))
		return true
	}
	c.items = append(c.items, LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Stock:    p.Stock,
		Qty:      qty,
	})
	return true
}

// SetQuantity clamps against the line's stock snapshot, not the live catalog.
func (c *Cart) SetQuantity(id string, requested int64) (LineItem, bool) {
	idx := c.index(id)
	if idx < 0 {
		return LineItem{}, false
	}
	c.items[idx].Qty = Clamp(requested, c.items[idx].Stock)
	return c.items[idx], true
}

func (c *Cart) Remove(id string) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.items = c.items[:0]
}

func (c *Cart) Get(id string) (LineItem, bool) {
	idx := c.index(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.items[idx], true
}

// Items returns a copy in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Count is the total number of units, shown on the cart badge.
func (c *Cart) Count() int64 {
	var n int64
	for _, it := range c.items {
		n += it.Qty
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range c.items {
		subtotal = subtotal.Add(it.Total())
	}
	return subtotal
}

func (c *Cart) Totals() domprice.Totals {
	return domprice.Compute(c.Subtotal())
}

func (c *Cart) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
