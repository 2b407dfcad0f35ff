package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMoneyFormatter(t *testing.T) {
	brl := NewMoneyFormatter(language.BrazilianPortuguese, "BRL").Format(decimal.RequireFromString("189.6"))
	require.Contains(t, brl, "R$")
	require.Contains(t, brl, "189")

	usd := NewMoneyFormatter(language.AmericanEnglish, "USD").Format(decimal.RequireFromString("19.9"))
	require.Contains(t, usd, "$")
	require.Contains(t, usd, "19")

	fallback := NewMoneyFormatter(language.BrazilianPortuguese, "not-a-code").Format(decimal.NewFromInt(5))
	require.Contains(t, fallback, "R$")
}
