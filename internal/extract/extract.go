// Package extract pulls semi-structured fields out of raw grocery page
// text. Pages arrive as server-rendered HTML with embedded, pre-escaped
// JSON fragments; extraction is tolerant pattern scanning, not parsing.
//
// Three scanning policies are deliberate, named rules rather than
// incidental code paths:
//
//   - first match wins: label variants are tried in priority order and
//     the first hit fills the field;
//   - doubled-MRP correction: the "mrp" label is emitted twice per
//     product in the page payload, so only every other occurrence is a
//     real value;
//   - common-prefix truncation: records are built only up to the
//     shortest field array, trailing unmatched values are dropped.
//
// Both the doubled-MRP and common-prefix rules are heuristics tuned to
// the observed page format and should be revalidated against fresh
// sample pages when the source markup changes.
package extract

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Listing is one product row recovered from a category or listing page.
// Prices are rupees; the source payload carries paise.
type Listing struct {
	Name         string  `json:"name"`
	Packsize     string  `json:"packsize"`
	MRP          float64 `json:"mrp"`
	SellingPrice float64 `json:"selling_price"`
	DiscountPct  int     `json:"discount_pct"`
	VariantID    string  `json:"variant_id,omitempty"`
}

var (
	namePattern     = regexp.MustCompile(`"name"\s*:\s*"([^"]{10,200})"`)
	packsizePattern = regexp.MustCompile(`"formattedPacksize"\s*:\s*"([^"]+)"`)
	variantPattern  = regexp.MustCompile(`"productVariant"\s*:\s*\{[^}]*"id"\s*:\s*"([^"]+)"`)
	mrpPattern      = regexp.MustCompile(`"mrp"\s*:\s*(\d+)`)
	sellingPattern  = regexp.MustCompile(`"sellingPrice"\s*:\s*(\d+)`)
)

// listingNameKeywords filters "name" matches down to actual products;
// the same label is used for categories, banners and UI copy in the
// page payload.
var listingNameKeywords = []string{
	"butter", "spread", "honey", "oil", "vinegar", "sauce", "jam", "chutney",
	"pickle", "jaggery", "ketchup", "dip", "mayo", "mayonnaise", "mustard",
	"syrup", "muesli", "oats", "cereal", "cornflakes", "poha", "upma",
	"pasta", "noodles", "vermicelli", "rice", "dal", "lentil", "beans",
	"chocolate", "cocoa", "coffee", "tea", "milk", "cream", "cheese",
	"paneer", "tofu", "yogurt", "curd", "lassi", "buttermilk",
	"bread", "roti", "naan", "paratha", "biscuit", "cookie",
	"chips", "namkeen", "snack", "nuts", "seeds", "dried",
	"juice", "drink", "water", "soda", "energy",
	"masala", "spice", "salt", "sugar", "flour", "atta",
	"ghee", "cooking", "olive", "coconut", "sunflower",
	"protein", "whey", "supplement", "vitamin",
	"organic", "natural", "fresh", "pure",
}

// Unescape normalizes raw page text before pattern matching: HTML
// entities plus the JSON escaping the server applies to its inlined
// payload (escaped quotes, slashes, newlines).
func Unescape(text string) string {
	text = html.UnescapeString(text)
	replacer := strings.NewReplacer(
		`\"`, `"`,
		`\n`, "\n",
		`\/`, `/`,
	)
	return replacer.Replace(text)
}

// ExtractListings scans listing page text and returns one Listing per
// logical product. Field arrays that disagree in length are cut to
// their common prefix.
func ExtractListings(text string) []Listing {
	content := Unescape(text)

	var names []string
	for _, m := range namePattern.FindAllStringSubmatch(content, -1) {
		if isListingName(m[1]) {
			names = append(names, m[1])
		}
	}

	var packsizes []string
	for _, m := range packsizePattern.FindAllStringSubmatch(content, -1) {
		packsizes = append(packsizes, m[1])
	}

	var variantIDs []string
	for _, m := range variantPattern.FindAllStringSubmatch(content, -1) {
		variantIDs = append(variantIDs, m[1])
	}

	mrps := dedupeDoubledMRP(findAllPaise(mrpPattern, content))
	sellingPrices := findAllPaise(sellingPattern, content)

	// Common-prefix truncation: only indexes covered by every field
	// array yield a record.
	n := min(len(names), len(mrps), len(sellingPrices), len(packsizes))

	listings := make([]Listing, 0, n)
	for i := 0; i < n; i++ {
		mrp := mrps[i] / 100
		selling := sellingPrices[i] / 100

		listing := Listing{
			Name:         names[i],
			Packsize:     packsizes[i],
			MRP:          mrp,
			SellingPrice: selling,
			DiscountPct:  discountPct(mrp, selling),
		}
		if i < len(variantIDs) {
			listing.VariantID = variantIDs[i]
		}
		listings = append(listings, listing)
	}

	return listings
}

// dedupeDoubledMRP keeps every other occurrence: the page payload emits
// each product's MRP twice in a row, so the raw match count is double
// the product count.
func dedupeDoubledMRP(values []float64) []float64 {
	deduped := make([]float64, 0, (len(values)+1)/2)
	for i := 0; i < len(values); i += 2 {
		deduped = append(deduped, values[i])
	}
	return deduped
}

func findAllPaise(pattern *regexp.Regexp, content string) []float64 {
	var values []float64
	for _, m := range pattern.FindAllStringSubmatch(content, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

func discountPct(mrp, selling float64) int {
	if mrp <= 0 {
		return 0
	}
	return int(math.Round((1 - selling/mrp) * 100))
}

func isListingName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range listingNameKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
