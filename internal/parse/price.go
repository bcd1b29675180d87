package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var priceSeparatorPattern = regexp.MustCompile(`[,.\s]+`)

// ParsePrice converts a price-shaped string ("123,45", "123 45", "123.45")
// to its value. The string must split into exactly a whole part and a
// two-digit fractional part; a leading '-' or '~' (a common OCR misread of
// the minus sign) negates.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "~") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}
	parts := priceSeparatorPattern.Split(s, -1)
	if len(parts) != 2 {
		return 0, false
	}
	value, err := strconv.ParseFloat(parts[0]+"."+parts[1], 64)
	if err != nil {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

func parsePriceOpt(s string) *float64 {
	if v, ok := ParsePrice(s); ok {
		return &v
	}
	return nil
}
