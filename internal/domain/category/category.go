package category

import (
	"slices"

	domproduct "example.com/loja/internal/domain/product"
)

// All is the selector value meaning "no category filter".
const All = ""

// Labels returns the distinct non-empty category labels of products, sorted.
func Labels(products []*domproduct.Product) []string {
	seen := make(map[string]struct{}, len(products))
	labels := make([]string, 0, len(products))
	for _, p := range products {
		if p == nil || p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		labels = append(labels, p.Category)
	}
	slices.Sort(labels)
	return labels
}

// Resolve keeps the current selection when it is still offered, otherwise
// it falls back to All.
func Resolve(current string, labels []string) string {
	if current == All {
		return All
	}
	if slices.Contains(labels, current) {
		return current
	}
	return All
}
