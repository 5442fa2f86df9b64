// Package catalog merges per-sitemap extraction batches into indexed,
// queryable collections of products, brands and categories.
package catalog

import (
	"strings"
	"sync"
	"time"
)

// Product is one sellable variant. Identity is the variant id; later
// crawl passes may update the mutable attributes but never the id.
type Product struct {
	VariantID    string   `json:"product_variant_id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	ImageURL     string   `json:"image_url,omitempty"`
	ImageTitle   string   `json:"image_title,omitempty"`
	RawWeight    string   `json:"weight,omitempty"`
	WeightGrams  *float64 `json:"weight_grams,omitempty"`
	BrandHint    string   `json:"brand_hint,omitempty"`
	LastModified string   `json:"last_modified,omitempty"`
	IsFood       bool     `json:"is_food"`
}

// Category is one category/subcategory pair. Identity is the composite
// of both ids.
type Category struct {
	CategorySlug    string `json:"category_slug"`
	SubcategorySlug string `json:"subcategory_slug"`
	CategoryID      string `json:"category_id"`
	SubcategoryID   string `json:"subcategory_id"`
	CategoryName    string `json:"category_name"`
	SubcategoryName string `json:"subcategory_name"`
	URL             string `json:"url,omitempty"`
}

// Brand is one brand entry. Identity is the brand id; the lowercased
// slug is a secondary lookup key.
type Brand struct {
	BrandSlug string `json:"brand_slug"`
	BrandID   string `json:"brand_id"`
	BrandName string `json:"brand_name"`
	URL       string `json:"url,omitempty"`
}

// CategoryGroup is a category with its subcategories, as served by the
// grouped listing.
type CategoryGroup struct {
	CategorySlug  string        `json:"category_slug"`
	CategoryName  string        `json:"category_name"`
	CategoryID    string        `json:"category_id"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is the per-subcategory slice of a CategoryGroup
type Subcategory struct {
	SubcategorySlug string `json:"subcategory_slug"`
	SubcategoryName string `json:"subcategory_name"`
	SubcategoryID   string `json:"subcategory_id"`
}

// Stats summarizes the catalog for the /stats endpoint
type Stats struct {
	TotalProducts      int       `json:"total_products"`
	TotalBrands        int       `json:"total_brands"`
	TotalCategories    int       `json:"total_categories"`
	FoodProducts       int       `json:"food_products"`
	ProductsWithWeight int       `json:"products_with_weight"`
	Source             string    `json:"source"`
	ScrapedAt          time.Time `json:"scraped_at"`
}

// Catalog owns the three indexes. Merges are last-write-wins per
// identifier and must come from a single writer; reads may be
// concurrent.
type Catalog struct {
	mu sync.RWMutex

	source    string
	scrapedAt time.Time

	products     map[string]*Product
	productOrder []string

	brandsByID   map[string]*Brand
	brandsBySlug map[string]*Brand
	brandOrder   []string

	categories    []Category
	categoryIndex map[string]int
}

// New creates an empty catalog for one source
func New(source string) *Catalog {
	return &Catalog{
		source:        source,
		products:      make(map[string]*Product),
		brandsByID:    make(map[string]*Brand),
		brandsBySlug:  make(map[string]*Brand),
		categoryIndex: make(map[string]int),
	}
}

// MergeProducts merges one shard's products. A variant id seen before
// is overwritten (last-write-wins); products may appear in more than
// one shard during incremental recrawls.
func (c *Catalog) MergeProducts(products []Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range products {
		p := products[i]
		if p.VariantID == "" {
			continue
		}
		if _, seen := c.products[p.VariantID]; !seen {
			c.productOrder = append(c.productOrder, p.VariantID)
		}
		c.products[p.VariantID] = &p
	}
	c.scrapedAt = time.Now()
}

// MergeBrands merges one shard's brands, last-write-wins by brand id
func (c *Catalog) MergeBrands(brands []Brand) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range brands {
		b := brands[i]
		if b.BrandID == "" {
			continue
		}
		if _, seen := c.brandsByID[b.BrandID]; !seen {
			c.brandOrder = append(c.brandOrder, b.BrandID)
		}
		c.brandsByID[b.BrandID] = &b
		c.brandsBySlug[strings.ToLower(b.BrandSlug)] = &b
	}
}

// MergeCategories merges one shard's categories, deduplicated by the
// composite category+subcategory id
func (c *Catalog) MergeCategories(categories []Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cat := range categories {
		key := cat.CategoryID + ":" + cat.SubcategoryID
		if idx, seen := c.categoryIndex[key]; seen {
			c.categories[idx] = cat
			continue
		}
		c.categoryIndex[key] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
}

// Product returns a product by variant id
func (c *Catalog) Product(variantID string) (*Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[variantID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Brand returns a brand by id, falling back to the lowercased slug
func (c *Catalog) Brand(idOrSlug string) (*Brand, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.brandsByID[idOrSlug]
	if !ok {
		b, ok = c.brandsBySlug[strings.ToLower(idOrSlug)]
	}
	if !ok {
		return nil, false
	}
	cp := *b
	return &cp, true
}

// Products returns all products in first-seen order
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, 0, len(c.productOrder))
	for _, id := range c.productOrder {
		out = append(out, *c.products[id])
	}
	return out
}

// Brands returns all brands in first-seen order
func (c *Catalog) Brands() []Brand {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Brand, 0, len(c.brandOrder))
	for _, id := range c.brandOrder {
		out = append(out, *c.brandsByID[id])
	}
	return out
}

// Categories returns all categories in first-seen order
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// SearchQuery holds the product search filters
type SearchQuery struct {
	Query           string
	BrandSlug       string
	CategoryKeyword string
	HasWeight       bool
	FoodOnly        bool
	Limit           int
	Offset          int
}

// SearchProducts filters products and returns the total match count
// plus one page of results
func (c *Catalog) SearchProducts(q SearchQuery) (int, []Product) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query := strings.ToLower(q.Query)
	brand := strings.ToLower(q.BrandSlug)
	category := strings.ToLower(q.CategoryKeyword)

	var matches []Product
	for _, id := range c.productOrder {
		p := c.products[id]
		slug := strings.ToLower(p.Slug)

		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) && !strings.Contains(slug, query) {
			continue
		}
		if brand != "" && !strings.Contains(slug, brand) {
			continue
		}
		if category != "" && !strings.Contains(slug, category) {
			continue
		}
		if q.HasWeight && p.RawWeight == "" {
			continue
		}
		if q.FoodOnly && !p.IsFood {
			continue
		}
		matches = append(matches, *p)
	}

	total := len(matches)

	offset := q.Offset
	if offset > total {
		offset = total
	}
	end := total
	if q.Limit > 0 && offset+q.Limit < end {
		end = offset + q.Limit
	}

	return total, matches[offset:end]
}

// FindProductsByBrandSlug returns products whose slug contains the
// brand's slug. Brand membership is a best-effort substring
// association, not a foreign key; the source data provides no
// authoritative linkage.
func (c *Catalog) FindProductsByBrandSlug(brandSlug string, limit int) []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slug := strings.ToLower(brandSlug)
	if slug == "" {
		return nil
	}

	var out []Product
	for _, id := range c.productOrder {
		p := c.products[id]
		if strings.Contains(strings.ToLower(p.Slug), slug) {
			out = append(out, *p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// CountProductsByBrandSlug counts the brand's weak associations
func (c *Catalog) CountProductsByBrandSlug(brandSlug string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slug := strings.ToLower(brandSlug)
	if slug == "" {
		return 0
	}

	count := 0
	for _, id := range c.productOrder {
		if strings.Contains(strings.ToLower(c.products[id].Slug), slug) {
			count++
		}
	}
	return count
}

// GroupedCategories groups categories by category slug, preserving
// first-seen order so grouping is stable across repeated runs
func (c *Catalog) GroupedCategories() []CategoryGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groupIndex := make(map[string]int)
	var groups []CategoryGroup

	for _, cat := range c.categories {
		idx, seen := groupIndex[cat.CategorySlug]
		if !seen {
			idx = len(groups)
			groupIndex[cat.CategorySlug] = idx
			groups = append(groups, CategoryGroup{
				CategorySlug: cat.CategorySlug,
				CategoryName: cat.CategoryName,
				CategoryID:   cat.CategoryID,
			})
		}
		groups[idx].Subcategories = append(groups[idx].Subcategories, Subcategory{
			SubcategorySlug: cat.SubcategorySlug,
			SubcategoryName: cat.SubcategoryName,
			SubcategoryID:   cat.SubcategoryID,
		})
	}

	return groups
}

// Stats summarizes the catalog
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		TotalProducts:   len(c.products),
		TotalBrands:     len(c.brandsByID),
		TotalCategories: len(c.categories),
		Source:          c.source,
		ScrapedAt:       c.scrapedAt,
	}
	for _, p := range c.products {
		if p.IsFood {
			s.FoodProducts++
		}
		if p.RawWeight != "" {
			s.ProductsWithWeight++
		}
	}
	return s
}
