package product

import "strings"

type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortNone, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc:
		return true
	default:
		return false
	}
}

// ParseSortKey accepts the selector values plus "none".
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return SortNone, nil
	}
	k := SortKey(s)
	if !k.IsValid() {
		return SortNone, ErrInvalidSortKey
	}
	return k, nil
}
