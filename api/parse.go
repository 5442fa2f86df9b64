package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travellingsaasman/grocerytracker/internal/classify"
	"travellingsaasman/grocerytracker/internal/extract"
	"travellingsaasman/grocerytracker/internal/pricestore"
)

// parseListingsRequest carries raw listing page text. With ingest=true
// the extracted rows are also stored as a price batch.
type parseListingsRequest struct {
	Content  string `json:"content" binding:"required"`
	Ingest   bool   `json:"ingest"`
	Source   string `json:"source"`
	Location string `json:"location"`
}

// ParseListings extracts product rows from raw listing page text
func (h *Handler) ParseListings(c *gin.Context) {
	var req parseListingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	listings := extract.ExtractListings(req.Content)

	response := gin.H{
		"total":    len(listings),
		"listings": emptyIfNil(listings),
	}

	if req.Ingest && len(listings) > 0 {
		items := make([]pricestore.Item, 0, len(listings))
		for _, l := range listings {
			l := l
			items = append(items, pricestore.Item{
				Name:         l.Name,
				Packsize:     l.Packsize,
				MRP:          &l.MRP,
				SellingPrice: &l.SellingPrice,
				DiscountPct:  &l.DiscountPct,
				VariantID:    l.VariantID,
			})
		}

		result, err := h.ingester.IngestPrices(items, req.Source, req.Location)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response["ingested"] = result.Ingested
		response["total_tracked"] = result.TotalTracked
	}

	c.JSON(http.StatusOK, response)
}

// parseDetailRequest carries raw detail page text plus the product
// identity. Price and weight are optional; when the weight is absent it
// is parsed from the packsize string.
type parseDetailRequest struct {
	Name        string  `json:"name"`
	PVID        string  `json:"pvid"`
	Content     string  `json:"content" binding:"required"`
	Price       float64 `json:"price"`
	WeightGrams float64 `json:"weight_grams"`
	Packsize    string  `json:"packsize"`
}

// ParseDetail extracts nutrition, ingredients, license and ingredient
// flags from raw detail page text, plus price-efficiency metrics when
// price and weight are known
func (h *Handler) ParseDetail(c *gin.Context) {
	var req parseDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	detail := extract.ParseDetail(req.Name, req.PVID, req.Content)

	weight := req.WeightGrams
	if weight == 0 && req.Packsize != "" {
		if grams, ok := classify.WeightGrams(req.Packsize); ok {
			weight = grams
		}
	}

	response := gin.H{"detail": detail}
	if metrics := extract.ComputeMetrics(req.Price, weight, detail.Nutrition); metrics != nil {
		response["metrics"] = metrics
	}

	c.JSON(http.StatusOK, response)
}
