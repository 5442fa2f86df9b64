package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travellingsaasman/grocerytracker/config"
	"travellingsaasman/grocerytracker/internal/catalog"
	"travellingsaasman/grocerytracker/internal/pricestore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type storeIngester struct {
	store *pricestore.Store
}

func (s *storeIngester) IngestPrices(items []pricestore.Item, source, location string) (pricestore.IngestResult, error) {
	if source == "" {
		source = "zepto"
	}
	if location == "" {
		location = "blr"
	}
	return s.store.Ingest(items, source, location, time.Now())
}

func testRouter(t *testing.T) (*gin.Engine, *catalog.Catalog, *pricestore.Store) {
	t.Helper()

	grams := 500.0
	cat := catalog.New("zepto")
	cat.MergeProducts([]catalog.Product{
		{VariantID: "pvid-1", Slug: "amul-salted-butter-500-g", Name: "Amul Salted Butter", RawWeight: "500 g", WeightGrams: &grams, IsFood: true},
		{VariantID: "pvid-2", Slug: "tata-salt-1-kg", Name: "Tata Salt", RawWeight: "1 kg", IsFood: true},
		{VariantID: "pvid-3", Slug: "usb-charger-cable", Name: "USB Charger Cable"},
	})
	cat.MergeBrands([]catalog.Brand{
		{BrandID: "b-1", BrandSlug: "amul", BrandName: "Amul"},
		{BrandID: "b-2", BrandSlug: "tata", BrandName: "Tata"},
	})
	cat.MergeCategories([]catalog.Category{
		{CategorySlug: "dairy", CategoryName: "Dairy", CategoryID: "c-1", SubcategorySlug: "milk", SubcategoryName: "Milk", SubcategoryID: "s-1"},
		{CategorySlug: "dairy", CategoryName: "Dairy", CategoryID: "c-1", SubcategorySlug: "butter", SubcategoryName: "Butter", SubcategoryID: "s-2"},
	})

	store := pricestore.New("")
	handler := NewHandler(cat, store, &storeIngester{store: store})
	router := SetupRouter(config.Config{Environment: "test"}, handler)
	return router, cat, store
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	router, _, _ := testRouter(t)
	w := doRequest(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestGetStats(t *testing.T) {
	router, _, _ := testRouter(t)
	w := doRequest(router, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(3), body["total_products"])
	assert.Equal(t, float64(2), body["total_brands"])
	assert.Equal(t, float64(2), body["total_categories"])
	assert.Equal(t, float64(2), body["food_products"])
	assert.Equal(t, "zepto", body["source"])
}

func TestListProducts(t *testing.T) {
	router, _, _ := testRouter(t)

	w := doRequest(router, http.MethodGet, "/products?q=butter", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])

	// Paging metadata is echoed back
	w = doRequest(router, http.MethodGet, "/products?limit=1&offset=1", "")
	body = decode(t, w)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(1), body["limit"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)

	// No match still returns an empty list, not null
	w = doRequest(router, http.MethodGet, "/products?q=nonexistent", "")
	body = decode(t, w)
	assert.Equal(t, float64(0), body["total"])
	assert.NotNil(t, body["results"])
}

func TestGetProduct(t *testing.T) {
	router, _, _ := testRouter(t)

	w := doRequest(router, http.MethodGet, "/products/pvid-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Amul Salted Butter", decode(t, w)["name"])

	w = doRequest(router, http.MethodGet, "/products/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBrands(t *testing.T) {
	router, _, _ := testRouter(t)

	w := doRequest(router, http.MethodGet, "/brands?q=amul", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
}

func TestGetBrand(t *testing.T) {
	router, _, _ := testRouter(t)

	// By id
	w := doRequest(router, http.MethodGet, "/brands/b-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Amul", body["brand_name"])
	assert.Equal(t, float64(1), body["product_count"])
	assert.Len(t, body["sample_products"].([]interface{}), 1)

	// Slug fallback
	w = doRequest(router, http.MethodGet, "/brands/AMUL", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b-1", decode(t, w)["brand_id"])

	w = doRequest(router, http.MethodGet, "/brands/nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategoriesGrouped(t *testing.T) {
	router, _, _ := testRouter(t)

	w := doRequest(router, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	groups := body["categories"].([]interface{})
	require.Len(t, groups, 1)
	dairy := groups[0].(map[string]interface{})
	assert.Equal(t, "dairy", dairy["category_slug"])
	assert.Len(t, dairy["subcategories"].([]interface{}), 2)
}

func TestAdvancedSearchWeightRange(t *testing.T) {
	router, _, _ := testRouter(t)

	// Only the 500 g product falls in range; the product without a
	// parseable weight is excluded once a bound is set
	w := doRequest(router, http.MethodGet, "/search/advanced?weight_min=400&weight_max=600", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "pvid-1", first["product_variant_id"])
	assert.Equal(t, float64(500), first["weight_grams"])

	// kg normalization puts the salt above the 600 g bound
	w = doRequest(router, http.MethodGet, "/search/advanced?weight_min=900", "")
	body = decode(t, w)
	assert.Equal(t, float64(1), body["total"])

	// Name filter without weight bounds
	w = doRequest(router, http.MethodGet, "/search/advanced?name=cable", "")
	body = decode(t, w)
	assert.Equal(t, float64(1), body["total"])
}

func TestIngestAndQueryPrices(t *testing.T) {
	router, _, _ := testRouter(t)

	payload := `{
		"products": [
			{"name": "Amul Salted Butter", "packsize": "500 g", "mrp": 285, "selling_price": 270, "discount_pct": 5, "variant_id": "pvid-1"}
		],
		"source": "zepto",
		"location": "Koramangala 4th Block, Bengaluru"
	}`

	w := doRequest(router, http.MethodPost, "/prices/ingest", payload)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["ingested"])
	assert.Equal(t, float64(1), body["total_tracked"])

	w = doRequest(router, http.MethodGet, "/prices?q=butter", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	summary := body["results"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "zepto:pvid-1", summary["key"])
	assert.Equal(t, float64(270), summary["current_price"])

	w = doRequest(router, http.MethodGet, "/prices/zepto:pvid-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	history := body["price_history"].([]interface{})
	require.Len(t, history, 1)

	// An untracked key is a 404, never an empty history
	w = doRequest(router, http.MethodGet, "/prices/zepto:untracked", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestPricesBadBody(t *testing.T) {
	router, _, _ := testRouter(t)
	w := doRequest(router, http.MethodPost, "/prices/ingest", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
