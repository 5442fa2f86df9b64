package worker

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travellingsaasman/grocerytracker/config"
	"travellingsaasman/grocerytracker/internal/catalog"
	"travellingsaasman/grocerytracker/internal/crawler"
	"travellingsaasman/grocerytracker/internal/pricestore"
)

type mockCrawler struct {
	shards     []crawler.ShardResult
	categories []catalog.Category
	brands     []catalog.Brand

	shardErr, catErr, brandErr error
}

func (m *mockCrawler) CrawlProducts(_ context.Context) ([]crawler.ShardResult, error) {
	return m.shards, m.shardErr
}

func (m *mockCrawler) CrawlCategories(_ context.Context) ([]catalog.Category, error) {
	return m.categories, m.catErr
}

func (m *mockCrawler) CrawlBrands(_ context.Context) ([]catalog.Brand, error) {
	return m.brands, m.brandErr
}

type mockPublisher struct {
	mu          sync.Mutex
	messages    map[string][][]byte
	trims       int
	failPublish bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{messages: make(map[string][][]byte)}
}

func (m *mockPublisher) Publish(source string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPublish {
		return errors.New("publish failed")
	}
	m.messages[source] = append(m.messages[source], message)
	return nil
}

func (m *mockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trims++
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) count(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages[source])
}

func testWorkerConfig(t *testing.T) config.Config {
	return config.Config{
		Source:        "zepto",
		Location:      "blr",
		DataDir:       t.TempDir(),
		CrawlInterval: time.Hour,
	}
}

func fptr(v float64) *float64 { return &v }

func TestRunCrawlPassMergesAll(t *testing.T) {
	cfg := testWorkerConfig(t)
	cr := &mockCrawler{
		shards: []crawler.ShardResult{
			{Shard: "products-1.xml", Products: []catalog.Product{
				{VariantID: "pvid-1", Slug: "amul-butter", Name: "Amul Butter"},
				{VariantID: "pvid-2", Slug: "tata-salt", Name: "Tata Salt"},
			}},
			{Shard: "products-2.xml", Err: errors.New("shard down")},
		},
		categories: []catalog.Category{{CategoryID: "c-1", SubcategoryID: "s-1", CategorySlug: "dairy"}},
		brands:     []catalog.Brand{{BrandID: "b-1", BrandSlug: "amul", BrandName: "Amul"}},
	}
	cat := catalog.New(cfg.Source)
	pub := newMockPublisher()

	w := NewWorker(context.Background(), cfg, cr, cat, pricestore.New(""), pub)
	summary := w.RunCrawlPass(context.Background())

	assert.Equal(t, 2, summary.Shards)
	assert.Equal(t, 1, summary.ShardsFailed)
	assert.Equal(t, 2, summary.Products)
	assert.Equal(t, 1, summary.Brands)
	assert.Equal(t, 1, summary.Categories)

	stats := cat.Stats()
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalBrands)
	assert.Equal(t, 1, stats.TotalCategories)

	// Artifacts are written after the merge
	assert.FileExists(t, filepath.Join(cfg.DataDir, "products.json"))

	// One pass summary event plus a trim
	require.Equal(t, 1, pub.count("zepto"))
	assert.Equal(t, 1, pub.trims)

	var event summaryEvent
	require.NoError(t, json.Unmarshal(pub.messages["zepto"][0], &event))
	assert.Equal(t, "crawl_pass", event.Type)
	assert.Equal(t, 2, event.Stats.TotalProducts)
}

func TestRunCrawlPassPartialFailure(t *testing.T) {
	cfg := testWorkerConfig(t)
	cr := &mockCrawler{
		shards: []crawler.ShardResult{
			{Shard: "products-1.xml", Products: []catalog.Product{{VariantID: "pvid-1", Slug: "amul-butter"}}},
		},
		catErr:   errors.New("category sitemap unreachable"),
		brandErr: errors.New("brand sitemap unreachable"),
	}
	cat := catalog.New(cfg.Source)

	w := NewWorker(context.Background(), cfg, cr, cat, pricestore.New(""), nil)
	summary := w.RunCrawlPass(context.Background())

	// Product results survive sibling crawl failures
	assert.Equal(t, 1, summary.Products)
	assert.Equal(t, 0, summary.Categories)
	assert.Equal(t, 0, summary.Brands)
	assert.Equal(t, 1, cat.Stats().TotalProducts)
}

func TestIngestPrices(t *testing.T) {
	cfg := testWorkerConfig(t)
	store := pricestore.New("")
	pub := newMockPublisher()

	w := NewWorker(context.Background(), cfg, &mockCrawler{}, catalog.New(cfg.Source), store, pub)

	result, err := w.IngestPrices([]pricestore.Item{
		{Name: "Amul Butter", VariantID: "pvid-1", SellingPrice: fptr(270)},
		{Name: "Tata Salt", SellingPrice: fptr(28)},
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Ingested)
	assert.Equal(t, 2, result.TotalTracked)

	// One event per observation, keyed under the default source
	require.Equal(t, 2, pub.count("zepto"))

	var event priceEvent
	require.NoError(t, json.Unmarshal(pub.messages["zepto"][0], &event))
	assert.Equal(t, "price_observation", event.Type)
	assert.Equal(t, "zepto:pvid-1", event.Key)
	assert.Equal(t, "blr", event.Location)

	// Stored under the defaulted source and location too
	s, err := store.History("zepto:pvid-1")
	require.NoError(t, err)
	require.Len(t, s.History, 1)
	assert.Equal(t, "blr", s.History[0].Location)
}

func TestIngestPricesExplicitSource(t *testing.T) {
	cfg := testWorkerConfig(t)
	store := pricestore.New("")

	w := NewWorker(context.Background(), cfg, &mockCrawler{}, catalog.New(cfg.Source), store, nil)

	_, err := w.IngestPrices([]pricestore.Item{
		{Name: "Amul Butter", VariantID: "pvid-1"},
	}, "bigbasket", "mumbai")
	require.NoError(t, err)

	s, err := store.History("bigbasket:pvid-1")
	require.NoError(t, err)
	assert.Equal(t, "mumbai", s.History[0].Location)
}

func TestIngestPricesPublisherFailureIsNotFatal(t *testing.T) {
	cfg := testWorkerConfig(t)
	store := pricestore.New("")
	pub := newMockPublisher()
	pub.failPublish = true

	w := NewWorker(context.Background(), cfg, &mockCrawler{}, catalog.New(cfg.Source), store, pub)

	result, err := w.IngestPrices([]pricestore.Item{
		{Name: "Amul Butter", VariantID: "pvid-1"},
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Ingested)

	// The store remains the durable record
	_, err = store.History("zepto:pvid-1")
	assert.NoError(t, err)
}

func TestStartStopsOnCancel(t *testing.T) {
	cfg := testWorkerConfig(t)
	cfg.CrawlInterval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(ctx, cfg, &mockCrawler{}, catalog.New(cfg.Source), pricestore.New(""), nil)

	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
