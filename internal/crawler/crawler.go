// Package crawler walks the source's product, category and brand
// sitemaps and turns their URL entries into catalog records. Product
// sitemaps are sharded behind an index; shards are fetched by a bounded
// pool and a failed shard never aborts the pass.
package crawler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"travellingsaasman/grocerytracker/config"
	"travellingsaasman/grocerytracker/helpers"
	"travellingsaasman/grocerytracker/internal/catalog"
	"travellingsaasman/grocerytracker/internal/classify"
	"travellingsaasman/grocerytracker/internal/ref"
	"travellingsaasman/grocerytracker/logger"
	"travellingsaasman/grocerytracker/pkg/errors"
	"travellingsaasman/grocerytracker/services/cache"
)

// rateLimitBlockTime is how long a source stays blocked after the
// server answers with a rate-limit status
const rateLimitBlockTime = 30 * time.Minute

// FetchFunc fetches a URL and returns its UTF-8 body
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// ShardResult is the outcome of one product sitemap shard. Err and
// Products are independent; a late failure keeps what was parsed.
type ShardResult struct {
	Shard    string
	Products []catalog.Product
	Err      error
}

// Crawler drives the sitemap crawl for one source
type Crawler struct {
	cfg     config.Config
	cache   cache.CacheService
	limiter *rate.Limiter
	fetch   FetchFunc
	log     *logger.Logger
}

// New creates a crawler for the configured source. cacheSvc may be nil,
// in which case rate-limit blocking is disabled.
func New(cfg config.Config, cacheSvc cache.CacheService) *Crawler {
	return &Crawler{
		cfg:     cfg,
		cache:   cacheSvc,
		limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		fetch:   helpers.FetchWithContext,
		log:     logger.ForCrawler(cfg.Source),
	}
}

func (c *Crawler) blockKey() string {
	return c.cfg.Source + "_rate_limited"
}

// fetchDocument fetches one URL through the shared rate limiter and
// parses the body leniently. A rate-limited response records a block
// key so subsequent fetches fail fast until it expires.
func (c *Crawler) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if c.cache != nil {
		if _, err := c.cache.Get(c.blockKey()); err == nil {
			return nil, errors.NewFetch(c.cfg.Source, "source temporarily blocked after rate limiting", nil)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewFetch(c.cfg.Source, "rate limiter wait aborted", err)
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		if c.cache != nil && strings.Contains(err.Error(), "rate limited") {
			if cacheErr := c.cache.Set(c.blockKey(), []byte("1"), rateLimitBlockTime); cacheErr != nil {
				c.log.Warn().Err(cacheErr).Msg("Failed to record rate-limit block")
			} else {
				c.log.Warn().Str("url", url).Msg("Rate limited; blocking source")
			}
		}
		return nil, errors.NewFetch(c.cfg.Source, fmt.Sprintf("failed to fetch %s", url), err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewFetch(c.cfg.Source, fmt.Sprintf("failed to parse %s", url), err)
	}
	return doc, nil
}

// expand fetches url and resolves one level of sitemap index
// indirection: a flat urlset yields itself, an index yields its
// children. Failed children are logged and skipped.
func (c *Crawler) expand(ctx context.Context, url string) ([]*goquery.Document, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	children := childSitemaps(doc)
	if len(children) == 0 {
		return []*goquery.Document{doc}, nil
	}

	docs := make([]*goquery.Document, 0, len(children))
	for _, child := range children {
		childDoc, err := c.fetchDocument(ctx, child)
		if err != nil {
			c.log.Error().Err(err).Str("sitemap", helpers.LastSegment(child)).Msg("Child sitemap fetch failed; skipping")
			continue
		}
		docs = append(docs, childDoc)
	}
	return docs, nil
}

// CrawlProducts fetches the product sitemap index and crawls its shards
// with a bounded pool. The returned slice holds one result per shard in
// index order; the error is non-nil only when the index itself was
// unreachable.
func (c *Crawler) CrawlProducts(ctx context.Context) ([]ShardResult, error) {
	doc, err := c.fetchDocument(ctx, c.cfg.ProductSitemapURL)
	if err != nil {
		return nil, err
	}

	shards := childSitemaps(doc)
	if len(shards) == 0 {
		// Flat sitemap without an index layer
		return []ShardResult{{
			Shard:    helpers.LastSegment(c.cfg.ProductSitemapURL),
			Products: c.collectProducts(doc),
		}}, nil
	}

	c.log.Info().Int("shards", len(shards)).Msg("Product sitemap index fetched")

	results := make([]ShardResult, len(shards))
	sem := make(chan struct{}, c.cfg.CrawlConcurrency)
	var wg sync.WaitGroup

	for i, shardURL := range shards {
		wg.Add(1)
		go func(i int, shardURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			shardCtx, cancel := context.WithTimeout(ctx, c.cfg.ShardTimeout)
			defer cancel()

			name := helpers.LastSegment(shardURL)
			products, err := c.crawlShard(shardCtx, shardURL)
			if err != nil {
				c.log.Error().Err(err).Str("shard", name).Msg("Shard crawl failed")
			} else {
				c.log.Debug().Str("shard", name).Int("products", len(products)).Msg("Shard crawled")
			}
			results[i] = ShardResult{Shard: name, Products: products, Err: err}
		}(i, shardURL)
	}
	wg.Wait()

	return results, nil
}

func (c *Crawler) crawlShard(ctx context.Context, url string) ([]catalog.Product, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.collectProducts(doc), nil
}

func (c *Crawler) collectProducts(doc *goquery.Document) []catalog.Product {
	var products []catalog.Product
	for _, e := range urlEntries(doc) {
		if p, ok := buildProduct(e); ok {
			products = append(products, p)
		}
	}
	return products
}

// buildProduct turns one sitemap entry into a catalog product. Entries
// whose URL is not a product page are dropped silently; mixed sitemaps
// carry landing pages and campaign URLs too.
func buildProduct(e entry) (catalog.Product, bool) {
	r, ok := ref.ParseProductURL(e.Loc)
	if !ok {
		return catalog.Product{}, false
	}

	p := catalog.Product{
		VariantID:    r.VariantID,
		Slug:         r.Slug,
		Name:         r.Name,
		URL:          r.URL,
		ImageURL:     e.ImageLoc,
		ImageTitle:   e.ImageTitle,
		RawWeight:    r.RawWeight,
		BrandHint:    r.BrandHint,
		LastModified: e.LastMod,
	}

	// The slug does not always carry the pack size; the image title
	// usually does
	if p.RawWeight == "" && e.ImageTitle != "" {
		p.RawWeight = ref.ExtractWeight(e.ImageTitle)
	}
	if grams, ok := classify.WeightGrams(p.RawWeight); ok {
		p.WeightGrams = &grams
	}
	p.IsFood = classify.IsFood(p.Name, p.Slug)

	return p, true
}

// CrawlCategories fetches the category sitemap and extracts every
// category/subcategory pair
func (c *Crawler) CrawlCategories(ctx context.Context) ([]catalog.Category, error) {
	docs, err := c.expand(ctx, c.cfg.CategorySitemapURL)
	if err != nil {
		return nil, err
	}

	var categories []catalog.Category
	for _, doc := range docs {
		for _, e := range urlEntries(doc) {
			r, ok := ref.ParseCategoryURL(e.Loc)
			if !ok {
				continue
			}
			categories = append(categories, catalog.Category{
				CategorySlug:    r.CategorySlug,
				SubcategorySlug: r.SubcategorySlug,
				CategoryID:      r.CategoryID,
				SubcategoryID:   r.SubcategoryID,
				CategoryName:    r.CategoryName,
				SubcategoryName: r.SubcategoryName,
				URL:             r.URL,
			})
		}
	}
	return categories, nil
}

// CrawlBrands fetches the brand sitemap and extracts every brand entry
func (c *Crawler) CrawlBrands(ctx context.Context) ([]catalog.Brand, error) {
	docs, err := c.expand(ctx, c.cfg.BrandSitemapURL)
	if err != nil {
		return nil, err
	}

	var brands []catalog.Brand
	for _, doc := range docs {
		for _, e := range urlEntries(doc) {
			r, ok := ref.ParseBrandURL(e.Loc)
			if !ok {
				continue
			}
			brands = append(brands, catalog.Brand{
				BrandSlug: r.BrandSlug,
				BrandID:   r.BrandID,
				BrandName: r.BrandName,
				URL:       r.URL,
			})
		}
	}
	return brands, nil
}
