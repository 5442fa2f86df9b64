package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration (ingestion event stream)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (rate-limit block keys)
	MemcacheAddr string

	// Crawler configuration
	CrawlInterval    time.Duration
	CrawlConcurrency int
	RequestDelay     time.Duration
	ShardTimeout     time.Duration

	// Sitemap endpoints
	ProductSitemapURL  string
	CategorySitemapURL string
	BrandSitemapURL    string

	// Source identity attached to every record and series key
	Source   string
	Location string

	// Persistence
	DataDir string

	// Read API
	APIAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	concurrency, _ := strconv.Atoi(getEnv("CRAWL_CONCURRENCY", "5"))
	requestDelayMs, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "500"))
	shardTimeout, _ := strconv.Atoi(getEnv("SHARD_TIMEOUT_SECONDS", "30"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "prices"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		CrawlConcurrency:     concurrency,
		RequestDelay:         time.Duration(requestDelayMs) * time.Millisecond,
		ShardTimeout:         time.Duration(shardTimeout) * time.Second,
		ProductSitemapURL:    getEnv("PRODUCT_SITEMAP_URL", "https://www.zepto.com/sitemap/products.xml"),
		CategorySitemapURL:   getEnv("CATEGORY_SITEMAP_URL", "https://www.zepto.com/sitemap/categories.xml"),
		BrandSitemapURL:      getEnv("BRAND_SITEMAP_URL", "https://www.zepto.com/sitemap/brands.xml"),
		Source:               getEnv("SOURCE", "zepto"),
		Location:             getEnv("LOCATION", "Koramangala 4th Block, Bengaluru"),
		DataDir:              getEnv("DATA_DIR", "data"),
		APIAddr:              getEnv("API_ADDR", ":8002"),
		Environment:          getEnv("GROCERY_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.CrawlConcurrency < 1 {
		return fmt.Errorf("CRAWL_CONCURRENCY must be at least 1, got %d", c.CrawlConcurrency)
	}
	if c.CrawlInterval <= 0 {
		return fmt.Errorf("CRAWL_INTERVAL_SECONDS must be positive")
	}
	if c.ShardTimeout <= 0 {
		return fmt.Errorf("SHARD_TIMEOUT_SECONDS must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Source == "" {
		return fmt.Errorf("SOURCE must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
