// Package api exposes the catalog and price store over HTTP: lookup,
// search and grouped listings for the catalog, plus price batch
// ingestion and history queries.
package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"travellingsaasman/grocerytracker/internal/catalog"
	"travellingsaasman/grocerytracker/internal/classify"
	"travellingsaasman/grocerytracker/internal/pricestore"
)

const serviceVersion = "0.1.0"

// PriceIngester accepts price batches; implemented by the worker so
// ingestion shares the store-then-publish path
type PriceIngester interface {
	IngestPrices(items []pricestore.Item, source, location string) (pricestore.IngestResult, error)
}

// Handler holds dependencies for the HTTP handlers
type Handler struct {
	catalog  *catalog.Catalog
	store    *pricestore.Store
	ingester PriceIngester
}

// NewHandler creates a new HTTP handler
func NewHandler(cat *catalog.Catalog, store *pricestore.Store, ingester PriceIngester) *Handler {
	return &Handler{
		catalog:  cat,
		store:    store,
		ingester: ingester,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grocerytracker",
		"version": serviceVersion,
	})
}

// GetStats returns catalog statistics
func (h *Handler) GetStats(c *gin.Context) {
	stats := h.catalog.Stats()
	c.JSON(http.StatusOK, gin.H{
		"total_products":       stats.TotalProducts,
		"total_brands":         stats.TotalBrands,
		"total_categories":     stats.TotalCategories,
		"food_products":        stats.FoodProducts,
		"products_with_weight": stats.ProductsWithWeight,
		"tracked_prices":       h.store.TotalTracked(),
		"source":               stats.Source,
		"scraped_at":           stats.ScrapedAt,
	})
}

// ListProducts lists and searches products
func (h *Handler) ListProducts(c *gin.Context) {
	limit := intQuery(c, "limit", 50, 1, 500)
	offset := intQuery(c, "offset", 0, 0, 1<<30)

	total, results := h.catalog.SearchProducts(catalog.SearchQuery{
		Query:           c.Query("q"),
		BrandSlug:       c.Query("brand"),
		CategoryKeyword: c.Query("category"),
		HasWeight:       c.Query("has_weight") == "true",
		Limit:           limit,
		Offset:          offset,
	})

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"results": emptyIfNil(results),
	})
}

// GetProduct returns a product by variant id
func (h *Handler) GetProduct(c *gin.Context) {
	p, ok := h.catalog.Product(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListBrands lists and searches brands by name
func (h *Handler) ListBrands(c *gin.Context) {
	limit := intQuery(c, "limit", 100, 1, 1000)
	offset := intQuery(c, "offset", 0, 0, 1<<30)
	q := strings.ToLower(c.Query("q"))

	var matches []catalog.Brand
	for _, b := range h.catalog.Brands() {
		if q != "" && !strings.Contains(strings.ToLower(b.BrandName), q) {
			continue
		}
		matches = append(matches, b)
	}

	total := len(matches)
	if offset > total {
		offset = total
	}
	end := total
	if offset+limit < end {
		end = offset + limit
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"results": emptyIfNil(matches[offset:end]),
	})
}

// GetBrand returns a brand by id, falling back to the slug, together
// with its weakly associated products
func (h *Handler) GetBrand(c *gin.Context) {
	b, ok := h.catalog.Brand(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brand not found"})
		return
	}

	samples := h.catalog.FindProductsByBrandSlug(b.BrandSlug, 20)
	c.JSON(http.StatusOK, gin.H{
		"brand_slug":      b.BrandSlug,
		"brand_id":        b.BrandID,
		"brand_name":      b.BrandName,
		"url":             b.URL,
		"product_count":   h.catalog.CountProductsByBrandSlug(b.BrandSlug),
		"sample_products": emptyIfNil(samples),
	})
}

// ListCategories returns categories grouped by category slug
func (h *Handler) ListCategories(c *gin.Context) {
	groups := h.catalog.GroupedCategories()
	c.JSON(http.StatusOK, gin.H{"categories": emptyIfNil(groups)})
}

// AdvancedSearch filters products by name, brand and a normalized
// weight range. Products whose weight cannot be parsed are excluded
// whenever a weight bound is set.
func (h *Handler) AdvancedSearch(c *gin.Context) {
	limit := intQuery(c, "limit", 50, 1, 500)
	name := strings.ToLower(c.Query("name"))
	brand := strings.ToLower(c.Query("brand"))
	weightMin, hasMin := floatQuery(c, "weight_min")
	weightMax, hasMax := floatQuery(c, "weight_max")

	var results []catalog.Product
	for _, p := range h.catalog.Products() {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Slug), brand) {
			continue
		}
		if hasMin || hasMax {
			grams, ok := classify.WeightGrams(p.RawWeight)
			if !ok {
				continue
			}
			if hasMin && grams < weightMin {
				continue
			}
			if hasMax && grams > weightMax {
				continue
			}
			p.WeightGrams = &grams
		}
		results = append(results, p)
	}

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"results": emptyIfNil(results),
	})
}

// ingestRequest is the price batch payload
type ingestRequest struct {
	Products []pricestore.Item `json:"products"`
	Source   string            `json:"source"`
	Location string            `json:"location"`
}

// IngestPrices accepts one price batch
func (h *Handler) IngestPrices(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.ingester.IngestPrices(req.Products, req.Source, req.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"ingested":      result.Ingested,
		"total_tracked": result.TotalTracked,
		"timestamp":     result.Timestamp.Format(time.RFC3339),
	})
}

// ListPrices returns tracked price summaries
func (h *Handler) ListPrices(c *gin.Context) {
	limit := intQuery(c, "limit", 50, 1, 500)

	results := h.store.Query(c.Query("q"), c.Query("source"), 0)
	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"results": emptyIfNil(results),
	})
}

// GetPriceHistory returns the full price history for one series key
func (h *Handler) GetPriceHistory(c *gin.Context) {
	key := c.Param("key")
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}

	s, err := h.store.History(key)
	if err != nil {
		if errors.Is(err, pricestore.ErrSeriesNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not tracked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

func intQuery(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func floatQuery(c *gin.Context, name string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// emptyIfNil keeps empty result sets serialized as [] instead of null
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
