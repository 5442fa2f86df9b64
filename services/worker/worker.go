// Package worker orchestrates the pipeline: periodic crawl passes that
// refresh the catalog, and price batch ingestion into the history store
// with per-observation stream events.
package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"travellingsaasman/grocerytracker/config"
	"travellingsaasman/grocerytracker/internal/catalog"
	"travellingsaasman/grocerytracker/internal/crawler"
	"travellingsaasman/grocerytracker/internal/pricestore"
	"travellingsaasman/grocerytracker/logger"
	"travellingsaasman/grocerytracker/pkg/errors"
	"travellingsaasman/grocerytracker/services/publisher"
)

// Crawler is the sitemap crawl surface the worker drives
type Crawler interface {
	CrawlProducts(ctx context.Context) ([]crawler.ShardResult, error)
	CrawlCategories(ctx context.Context) ([]catalog.Category, error)
	CrawlBrands(ctx context.Context) ([]catalog.Brand, error)
}

// PassSummary aggregates one crawl pass
type PassSummary struct {
	Shards       int   `json:"shards"`
	ShardsFailed int   `json:"shards_failed"`
	Products     int   `json:"products"`
	Brands       int   `json:"brands"`
	Categories   int   `json:"categories"`
	DurationMS   int64 `json:"duration_ms"`
}

// summaryEvent is the stream message published after each crawl pass
type summaryEvent struct {
	Type      string        `json:"type"`
	Source    string        `json:"source"`
	Summary   PassSummary   `json:"summary"`
	Stats     catalog.Stats `json:"stats"`
	Timestamp time.Time     `json:"timestamp"`
}

// priceEvent is the stream message published per ingested observation
type priceEvent struct {
	Type string `json:"type"`
	Key  string `json:"key"`
	pricestore.Item
	Source    string    `json:"source"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// Worker runs the crawl loop and handles price ingestion
type Worker struct {
	ctx       context.Context
	cfg       config.Config
	crawler   Crawler
	catalog   *catalog.Catalog
	store     *pricestore.Store
	publisher publisher.Publisher
	log       *logger.Logger
}

// NewWorker creates a new worker. pub may be nil to disable stream
// events.
func NewWorker(
	ctx context.Context,
	cfg config.Config,
	cr Crawler,
	cat *catalog.Catalog,
	store *pricestore.Store,
	pub publisher.Publisher,
) *Worker {
	return &Worker{
		ctx:       ctx,
		cfg:       cfg,
		crawler:   cr,
		catalog:   cat,
		store:     store,
		publisher: pub,
		log:       logger.ForWorker(),
	}
}

// Start runs crawl passes until the context is cancelled
func (w *Worker) Start() {
	w.log.Info().Dur("interval", w.cfg.CrawlInterval).Msg("Worker started")
	for {
		w.RunCrawlPass(w.ctx)

		select {
		case <-w.ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-time.After(w.cfg.CrawlInterval):
		}
	}
}

// RunCrawlPass crawls brands, categories and product shards in
// parallel, then merges results into the catalog single-threaded.
// Failures are logged and skipped; whatever was crawled is kept and
// persisted.
func (w *Worker) RunCrawlPass(ctx context.Context) PassSummary {
	start := time.Now()

	var (
		wg         sync.WaitGroup
		shards     []crawler.ShardResult
		categories []catalog.Category
		brands     []catalog.Brand

		shardErr, catErr, brandErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		shards, shardErr = w.crawler.CrawlProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, catErr = w.crawler.CrawlCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		brands, brandErr = w.crawler.CrawlBrands(ctx)
	}()
	wg.Wait()

	var summary PassSummary

	if shardErr != nil {
		w.log.Error().Err(shardErr).Msg("Product sitemap crawl failed")
	}
	for _, shard := range shards {
		summary.Shards++
		if shard.Err != nil {
			summary.ShardsFailed++
		}
		if len(shard.Products) > 0 {
			w.catalog.MergeProducts(shard.Products)
			summary.Products += len(shard.Products)
		}
	}

	if catErr != nil {
		w.log.Error().Err(catErr).Msg("Category sitemap crawl failed")
	} else {
		w.catalog.MergeCategories(categories)
		summary.Categories = len(categories)
	}

	if brandErr != nil {
		w.log.Error().Err(brandErr).Msg("Brand sitemap crawl failed")
	} else {
		w.catalog.MergeBrands(brands)
		summary.Brands = len(brands)
	}

	if err := w.catalog.SaveArtifacts(w.cfg.DataDir); err != nil {
		w.log.Error().Err(err).Msg("Failed to persist catalog artifacts")
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	w.publishSummary(summary)

	w.log.Info().
		Int("shards", summary.Shards).
		Int("shards_failed", summary.ShardsFailed).
		Int("products", summary.Products).
		Int("brands", summary.Brands).
		Int("categories", summary.Categories).
		Int64("duration_ms", summary.DurationMS).
		Msg("Crawl pass finished")

	return summary
}

func (w *Worker) publishSummary(summary PassSummary) {
	if w.publisher == nil {
		return
	}

	event := summaryEvent{
		Type:      "crawl_pass",
		Source:    w.cfg.Source,
		Summary:   summary,
		Stats:     w.catalog.Stats(),
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to marshal pass summary")
		return
	}
	if err := w.publisher.Publish(w.cfg.Source, data); err != nil {
		w.log.Error().Err(errors.NewPublisher(w.cfg.Source, "failed to publish pass summary", err)).Msg("Publish failed")
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.log.Error().Err(err).Msg("Stream trimming failed")
	}
}

// IngestPrices stores one price batch and publishes an event per
// observation. Publisher failures are logged but never fail the ingest;
// the store is the durable record.
func (w *Worker) IngestPrices(items []pricestore.Item, source, location string) (pricestore.IngestResult, error) {
	if source == "" {
		source = w.cfg.Source
	}
	if location == "" {
		location = w.cfg.Location
	}
	now := time.Now()

	result, err := w.store.Ingest(items, source, location, now)
	if err != nil {
		return result, errors.NewStore(source, "failed to persist price batch", err)
	}

	if w.publisher != nil {
		for _, item := range items {
			if item.Name == "" && item.VariantID == "" {
				continue
			}

			event := priceEvent{
				Type:      "price_observation",
				Key:       pricestore.Key(source, item.VariantID, item.Name),
				Item:      item,
				Source:    source,
				Location:  location,
				Timestamp: now,
			}
			data, err := json.Marshal(event)
			if err != nil {
				w.log.Error().Err(err).Str("key", event.Key).Msg("Failed to marshal price event")
				continue
			}
			if err := w.publisher.Publish(source, data); err != nil {
				w.log.Error().Err(errors.NewPublisher(source, "failed to publish price event", err)).Str("key", event.Key).Msg("Publish failed")
			}
		}
	}

	w.log.Info().
		Int("ingested", result.Ingested).
		Int("total_tracked", result.TotalTracked).
		Str("source", source).
		Msg("Price batch ingested")

	return result, nil
}
