package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)\s?(\d+(?:,\d{2,3})*(?:\.\d{1,2})?)`)

// ExtractPrices returns rupee amounts mentioned in text, in order of appearance
func ExtractPrices(text string) []string {
	matches := priceRe.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	seen := map[string]bool{}
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// ParsePrice returns the numeric value of the first rupee amount in text
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
