package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// weightPattern matches a leading numeric literal followed by a unit token.
// Matching is anchored; trailing text is ignored.
var weightPattern = regexp.MustCompile(`^([\d.]+)\s*(kg|g|gm|gram|ml|l|litre)`)

// IsFood reports whether a product is food-related, judged by
// case-insensitive substring matching against its name and slug.
// The exclusion list is checked first and any hit forces false,
// regardless of inclusion matches.
func IsFood(name, slug string) bool {
	text := strings.ToLower(name + " " + slug)

	for _, kw := range excludeKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}

	for _, kw := range foodKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	return false
}

// WeightGrams parses a weight string like "500 g", "1 kg" or "1 L" and
// converts it to grams. Liquid volumes are treated as mass-equivalent
// (1 ml ~ 1 g) so products can be ranked by pack size; this is an
// approximation, not a physical claim. The second return value is false
// when no unit token is recognized.
func WeightGrams(text string) (float64, bool) {
	m := weightPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return 0, false
	}

	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "kg", "l", "litre":
		return val * 1000, true
	default:
		return val, true
	}
}
