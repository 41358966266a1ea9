package utils

import (
	"strconv"
	"strings"
)

// ParseMoney normalizes the money shapes the backing stores actually hold:
// plain numbers, or formatted strings like "£1,234.50". Unparsable or
// missing values become 0 so aggregation never propagates NaN.
func ParseMoney(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseMoneyString(n)
	default:
		return 0
	}
}

func parseMoneyString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
