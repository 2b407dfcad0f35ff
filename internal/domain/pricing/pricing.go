package pricing

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(199)
	FlatShipping          = decimal.RequireFromString("19.9")
)

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Shipping is free from the threshold up and for an empty order.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) || !subtotal.IsPositive() {
		return decimal.Zero
	}
	return FlatShipping
}

func Compute(subtotal decimal.Decimal) Totals {
	shipping := Shipping(subtotal)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// LineTotal is price*qty without rounding.
func LineTotal(price decimal.Decimal, qty int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty))
}
