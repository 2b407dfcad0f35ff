package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestHasDiscount(t *testing.T) {
	higher := decimal.RequireFromString("59.9")
	equal := decimal.RequireFromString("39.9")
	lower := decimal.RequireFromString("10")

	tests := []struct {
		name      string
		compareAt *decimal.Decimal
		want      bool
	}{
		{name: "no compare-at price", want: false},
		{name: "higher compare-at price", compareAt: &higher, want: true},
		{name: "equal compare-at price", compareAt: &equal, want: false},
		{name: "lower compare-at price", compareAt: &lower, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString("39.90"), CompareAtPrice: tt.compareAt}
			require.Equal(t, tt.want, p.HasDiscount())
		})
	}
}

func TestInStock(t *testing.T) {
	require.True(t, Product{Stock: 1}.InStock())
	require.False(t, Product{Stock: 0}.InStock())
	require.False(t, Product{Stock: -1}.InStock())
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{in: "", want: SortNone},
		{in: "none", want: SortNone},
		{in: " Price-Asc ", want: SortPriceAsc},
		{in: "price-desc", want: SortPriceDesc},
		{in: "title-asc", want: SortTitleAsc},
		{in: "title-desc", want: SortTitleDesc},
		{in: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSortKey)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
