package api

import (
	"github.com/gin-gonic/gin"

	"travellingsaasman/grocerytracker/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg config.Config, handler *Handler) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware())

	router.GET("/health", handler.HealthCheck)
	router.GET("/stats", handler.GetStats)

	router.GET("/products", handler.ListProducts)
	router.GET("/products/:id", handler.GetProduct)

	router.GET("/brands", handler.ListBrands)
	router.GET("/brands/:id", handler.GetBrand)

	router.GET("/categories", handler.ListCategories)
	router.GET("/search/advanced", handler.AdvancedSearch)

	router.POST("/parse/listings", handler.ParseListings)
	router.POST("/parse/detail", handler.ParseDetail)

	router.POST("/prices/ingest", handler.IngestPrices)
	router.GET("/prices", handler.ListPrices)
	router.GET("/prices/:key", handler.GetPriceHistory)

	return router
}
