package ref

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProductRef holds the identifiers recovered from a product URL
type ProductRef struct {
	VariantID string `json:"product_variant_id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	RawWeight string `json:"weight,omitempty"`
	BrandHint string `json:"brand_hint,omitempty"`
}

// CategoryRef holds the identifiers recovered from a category URL
type CategoryRef struct {
	CategorySlug    string `json:"category_slug"`
	SubcategorySlug string `json:"subcategory_slug"`
	CategoryID      string `json:"category_id"`
	SubcategoryID   string `json:"subcategory_id"`
	CategoryName    string `json:"category_name"`
	SubcategoryName string `json:"subcategory_name"`
	URL             string `json:"url"`
}

// BrandRef holds the identifiers recovered from a brand URL
type BrandRef struct {
	BrandSlug string `json:"brand_slug"`
	BrandID   string `json:"brand_id"`
	BrandName string `json:"brand_name"`
	URL       string `json:"url"`
}

// URL structure:
//
//	product:  .../pn/{slug}/pvid/{variant-id}
//	category: .../cn/{cat}/{subcat}/cid/{cat-id}/scid/{subcat-id}
//	brand:    .../brand/{slug}/{brand-id}
var (
	productPattern  = regexp.MustCompile(`.*/pn/([^/]+)/pvid/([a-f0-9-]+)`)
	categoryPattern = regexp.MustCompile(`.*/cn/([^/]+)/([^/]+)/cid/([a-f0-9-]+)/scid/([a-f0-9-]+)`)
	brandPattern    = regexp.MustCompile(`.*/brand/([^/]+)/([a-f0-9-]+)`)

	weightPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|g|ml|l|litre|liter|gm|gram|pack|piece|pc|count|unit)\b`)

	titleCaser = cases.Title(language.English)
)

// ParseProductURL extracts product identifiers from a product URL.
// The second return value is false when the URL does not match the
// product pattern; that is a filtering signal, not an error.
func ParseProductURL(rawURL string) (*ProductRef, bool) {
	m := productPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}

	slug := m[1]
	spaced := strings.ReplaceAll(slug, "-", " ")

	ref := &ProductRef{
		VariantID: m[2],
		Slug:      slug,
		Name:      SlugToName(slug),
		URL:       rawURL,
		BrandHint: BrandHint(slug),
	}

	if w := weightPattern.FindString(spaced); w != "" {
		ref.RawWeight = w
	}

	return ref, true
}

// ParseCategoryURL extracts category identifiers from a category URL
func ParseCategoryURL(rawURL string) (*CategoryRef, bool) {
	m := categoryPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}

	return &CategoryRef{
		CategorySlug:    m[1],
		SubcategorySlug: m[2],
		CategoryID:      m[3],
		SubcategoryID:   m[4],
		CategoryName:    SlugToName(m[1]),
		SubcategoryName: SlugToName(m[2]),
		URL:             rawURL,
	}, true
}

// ParseBrandURL extracts brand identifiers from a brand URL
func ParseBrandURL(rawURL string) (*BrandRef, bool) {
	m := brandPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}

	slug := m[1]
	name, err := url.QueryUnescape(strings.ReplaceAll(slug, "_", " "))
	if err != nil {
		name = strings.ReplaceAll(slug, "_", " ")
	}
	name = strings.ReplaceAll(name, "'S", "'s")

	return &BrandRef{
		BrandSlug: slug,
		BrandID:   m[2],
		BrandName: name,
		URL:       rawURL,
	}, true
}

// SlugToName converts a URL slug into a display name by replacing
// separators with spaces and title-casing. The conversion is lossy;
// the result is a display hint, not a canonical name.
func SlugToName(slug string) string {
	spaced := strings.ReplaceAll(slug, "-", " ")
	if unescaped, err := url.QueryUnescape(spaced); err == nil {
		spaced = unescaped
	}
	return titleCaser.String(spaced)
}

// ExtractWeight returns the first weight-like token found anywhere in
// text ("Amul Butter 500 g Carton" yields "500 g"), or "" when none is
// present. Used to supplement products whose slug carries no weight,
// typically from the sitemap image title.
func ExtractWeight(text string) string {
	return weightPattern.FindString(text)
}

// BrandHint returns the first slug token, which on grocery listings is
// usually the brand. Best effort only.
func BrandHint(slug string) string {
	if slug == "" {
		return ""
	}
	return strings.SplitN(slug, "-", 2)[0]
}
