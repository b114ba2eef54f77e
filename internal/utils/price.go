package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches an optional currency prefix followed by grouped digits and an
// optional two-digit decimal part, e.g. "R2,499.99" or "3000".
var priceRe = regexp.MustCompile(`R?\s*\d+(?:,\d{3})*(?:\.\d{2})?`)

// ExtractMaxPrice scans text for every numeric quantity and returns the
// largest one as a price ceiling, or nil when no number is present. Taking
// the maximum of all mentions is a deliberate heuristic, not a range parser.
func ExtractMaxPrice(text string) *float64 {
	matches := priceRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var max float64
	found := false
	for _, m := range matches {
		cleaned := strings.NewReplacer("R", "", ",", "", " ", "", "\t", "").Replace(m)
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		if !found || value > max {
			max = value
			found = true
		}
	}

	if !found {
		return nil
	}
	return &max
}
