package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Equal(t, "", config.MemcacheAddr)
	assert.Equal(t, 3600*time.Second, config.CrawlInterval)
	assert.Equal(t, 5, config.CrawlConcurrency)
	assert.Equal(t, 500*time.Millisecond, config.RequestDelay)
	assert.Equal(t, "zepto", config.Source)
	assert.Equal(t, "data", config.DataDir)

	// Test with environment variables
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("CRAWL_INTERVAL_SECONDS", "30")
	os.Setenv("CRAWL_CONCURRENCY", "3")
	os.Setenv("PRODUCT_SITEMAP_URL", "https://example.com/products.xml")
	os.Setenv("SOURCE", "bigbasket")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, 30*time.Second, config.CrawlInterval)
	assert.Equal(t, 3, config.CrawlConcurrency)
	assert.Equal(t, "https://example.com/products.xml", config.ProductSitemapURL)
	assert.Equal(t, "bigbasket", config.Source)

	// Clean up
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("CRAWL_INTERVAL_SECONDS")
	os.Unsetenv("CRAWL_CONCURRENCY")
	os.Unsetenv("PRODUCT_SITEMAP_URL")
	os.Unsetenv("SOURCE")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.CrawlConcurrency = 0
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.DataDir = ""
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.Source = ""
	assert.Error(t, config.Validate())
}
