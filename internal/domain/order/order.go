package order

import (
	"time"

	"github.com/shopspring/decimal"

	domprice "example.com/loja/internal/domain/pricing"
)

type Status string

// StatusProcessing is the only status the store assigns; fulfilment
// happens outside it.
const StatusProcessing Status = "processing"

type Customer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Notes   string `json:"notes"`
}

// Item is what the client submits: a product id and a quantity.
type Item struct {
	ID  string `json:"id"`
	Qty int64  `json:"qty"`
}

type Order struct {
	ID        string
	Customer  Customer
	Items     []OrderItem
	Totals    domprice.Totals
	Status    Status
	CreatedAt time.Time
}

type OrderItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int64
}

// Receipt is the client's view of an accepted order.
type Receipt struct {
	OrderID string
	Message string
	Totals  domprice.Totals
}
