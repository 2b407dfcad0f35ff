package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter renders amounts with the locale's currency conventions.
type MoneyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewMoneyFormatter falls back to BRL when code is not an ISO 4217 code.
func NewMoneyFormatter(lang language.Tag, code string) *MoneyFormatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.BRL
	}
	return &MoneyFormatter{
		printer: message.NewPrinter(lang),
		unit:    unit,
	}
}

// Format rounds only for display.
func (f *MoneyFormatter) Format(amount decimal.Decimal) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount.InexactFloat64())))
}
