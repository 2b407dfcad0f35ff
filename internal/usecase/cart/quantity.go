package cart

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuantity reads a quantity typed by the user. Like a number input it
// takes the leading integer ("3 units" is 3, "2.9" is 2); anything without
// one counts as 1. Range clamping happens later against stock.
func ParseQuantity(raw string) int64 {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if strings.HasPrefix(s, "-") {
			return 1
		}
		// overflow: larger than any stock
		return math.MaxInt64
	}
	return n
}
