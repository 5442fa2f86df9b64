package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductURL(t *testing.T) {
	url := "https://www.zepto.com/pn/amul-salted-butter-500-g/pvid/0a1b2c3d-4e5f-6789-abcd-ef0123456789"

	p, ok := ParseProductURL(url)
	require.True(t, ok)
	assert.Equal(t, "0a1b2c3d-4e5f-6789-abcd-ef0123456789", p.VariantID)
	assert.Equal(t, "amul-salted-butter-500-g", p.Slug)
	assert.Equal(t, "Amul Salted Butter 500 G", p.Name)
	assert.Equal(t, "500 g", p.RawWeight)
	assert.Equal(t, "amul", p.BrandHint)
	assert.Equal(t, url, p.URL)
}

func TestParseProductURLRoundTrip(t *testing.T) {
	// The parser must recover exactly the slug and variant id segments
	// that were used to construct the URL
	cases := []struct {
		slug string
		pvid string
	}{
		{"tata-salt-1-kg", "11111111-2222-3333-4444-555555555555"},
		{"aashirvaad-atta-5-kg", "deadbeef-0000-1111-2222-333344445555"},
		{"maggi-2-minute-noodles-70-g", "abcdef01-2345-6789-abcd-ef0123456789"},
	}

	for _, c := range cases {
		url := "https://www.zepto.com/pn/" + c.slug + "/pvid/" + c.pvid
		p, ok := ParseProductURL(url)
		require.True(t, ok, url)
		assert.Equal(t, c.slug, p.Slug)
		assert.Equal(t, c.pvid, p.VariantID)
	}
}

func TestParseProductURLNonMatch(t *testing.T) {
	// Non-product entries in a mixed sitemap are a filtering signal
	for _, url := range []string{
		"https://www.zepto.com/",
		"https://www.zepto.com/cn/dairy/milk/cid/aa11/scid/bb22",
		"https://www.zepto.com/pn/missing-variant-id",
		"",
	} {
		_, ok := ParseProductURL(url)
		assert.False(t, ok, url)
	}
}

func TestParseCategoryURL(t *testing.T) {
	url := "https://www.zepto.com/cn/atta-rice-oil-dals/atta/cid/2f7190d0-7c40-458b-b450-9a1006db3d95/scid/15644eea-d781-4cdd-8d85-e63bd9706b96"

	c, ok := ParseCategoryURL(url)
	require.True(t, ok)
	assert.Equal(t, "atta-rice-oil-dals", c.CategorySlug)
	assert.Equal(t, "atta", c.SubcategorySlug)
	assert.Equal(t, "2f7190d0-7c40-458b-b450-9a1006db3d95", c.CategoryID)
	assert.Equal(t, "15644eea-d781-4cdd-8d85-e63bd9706b96", c.SubcategoryID)
	assert.Equal(t, "Atta Rice Oil Dals", c.CategoryName)
	assert.Equal(t, "Atta", c.SubcategoryName)

	_, ok = ParseCategoryURL("https://www.zepto.com/pn/some-product/pvid/aa11")
	assert.False(t, ok)
}

func TestParseBrandURL(t *testing.T) {
	b, ok := ParseBrandURL("https://www.zepto.com/brand/amul/c1d2e3f4-0000-1111-2222-333444555666")
	require.True(t, ok)
	assert.Equal(t, "amul", b.BrandSlug)
	assert.Equal(t, "c1d2e3f4-0000-1111-2222-333444555666", b.BrandID)
	assert.Equal(t, "amul", b.BrandName)

	_, ok = ParseBrandURL("https://www.zepto.com/cn/x/y/cid/1/scid/2")
	assert.False(t, ok)
}

func TestSlugToName(t *testing.T) {
	assert.Equal(t, "Amul Salted Butter", SlugToName("amul-salted-butter"))
	assert.Equal(t, "", SlugToName(""))
}

func TestExtractWeight(t *testing.T) {
	// Unanchored; finds the weight token wherever it sits in the text
	assert.Equal(t, "500 g", ExtractWeight("Amul Salted Butter 500 g Carton"))
	assert.Equal(t, "1.5 l", ExtractWeight("coca cola 1.5 l bottle"))
	assert.Equal(t, "", ExtractWeight("usb charger cable"))
	assert.Equal(t, "", ExtractWeight(""))
}

func TestBrandHint(t *testing.T) {
	assert.Equal(t, "amul", BrandHint("amul-salted-butter-500-g"))
	assert.Equal(t, "tata", BrandHint("tata"))
	assert.Equal(t, "", BrandHint(""))
}
