package catalog

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domproduct "example.com/loja/internal/domain/product"
)

// Sort returns a reordered copy of products. Titles are compared with the
// collation rules of lang; SortNone keeps the service order.
func Sort(products []*domproduct.Product, key domproduct.SortKey, lang language.Tag) []*domproduct.Product {
	items := slices.Clone(products)

	switch key {
	case domproduct.SortPriceAsc:
		slices.SortStableFunc(items, func(a, b *domproduct.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case domproduct.SortPriceDesc:
		slices.SortStableFunc(items, func(a, b *domproduct.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case domproduct.SortTitleAsc, domproduct.SortTitleDesc:
		col := collate.New(lang)
		desc := key == domproduct.SortTitleDesc
		slices.SortStableFunc(items, func(a, b *domproduct.Product) int {
			if desc {
				return col.CompareString(b.Title, a.Title)
			}
			return col.CompareString(a.Title, b.Title)
		})
	}
	return items
}
