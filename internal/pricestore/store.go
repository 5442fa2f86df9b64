// Package pricestore keeps an append-only, bounded price history per
// tracked product. Series are keyed by "source:variantIdOrName"; a
// series stays active once observed and only a full reset removes it.
package pricestore

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MaxObservations bounds each series; when a series holds this many
// observations the oldest is evicted on append (FIFO)
const MaxObservations = 100

// ErrSeriesNotFound is returned when a queried series key is untracked
var ErrSeriesNotFound = errors.New("price series not tracked")

// Observation is one immutable price point. Pointer fields distinguish
// "not reported" from zero.
type Observation struct {
	MRP          *float64  `json:"mrp"`
	SellingPrice *float64  `json:"selling_price"`
	DiscountPct  *int      `json:"discount_pct"`
	Location     string    `json:"location"`
	Timestamp    time.Time `json:"timestamp"`
}

// Series is the durable state of one tracked product
type Series struct {
	Name     string        `json:"name"`
	Packsize string        `json:"packsize,omitempty"`
	Source   string        `json:"source"`
	History  []Observation `json:"price_history"`
}

// Item is one entry of an ingestion batch, as posted by the parser or
// an external scraper
type Item struct {
	Name         string   `json:"name"`
	Packsize     string   `json:"packsize,omitempty"`
	MRP          *float64 `json:"mrp,omitempty"`
	SellingPrice *float64 `json:"selling_price,omitempty"`
	DiscountPct  *int     `json:"discount_pct,omitempty"`
	VariantID    string   `json:"variant_id,omitempty"`
}

// Summary is the per-series result of Query: the latest observation
// plus metadata, never the full history
type Summary struct {
	Key          string     `json:"key"`
	Name         string     `json:"name"`
	Packsize     string     `json:"packsize,omitempty"`
	Source       string     `json:"source"`
	CurrentPrice *float64   `json:"current_price"`
	MRP          *float64   `json:"mrp"`
	DiscountPct  *int       `json:"discount_pct"`
	LastUpdated  *time.Time `json:"last_updated"`
	PricePoints  int        `json:"price_points"`
}

// IngestResult reports one ingestion batch
type IngestResult struct {
	Ingested     int       `json:"ingested"`
	TotalTracked int       `json:"total_tracked"`
	Timestamp    time.Time `json:"timestamp"`
}

type seriesEntry struct {
	mu sync.Mutex
	s  Series
}

// Store is the price history store. The series map is guarded by mu;
// appends to one series are serialized by the entry's own mutex so
// independent keys never contend.
type Store struct {
	mu     sync.RWMutex
	series map[string]*seriesEntry

	path   string
	saveMu sync.Mutex
}

// New creates an empty store persisting to path. An empty path
// disables persistence (tests).
func New(path string) *Store {
	return &Store{
		series: make(map[string]*seriesEntry),
		path:   path,
	}
}

// Key builds the series key: the variant id when supplied, the raw
// name otherwise
func Key(source, variantID, name string) string {
	if variantID != "" {
		return source + ":" + variantID
	}
	return source + ":" + name
}

// Ingest appends one observation per item, creating series on first
// sight and enforcing the retention window. Repeated ingestion of
// identical observations simply grows history; dedupe is the caller's
// concern. The whole store is persisted once per batch.
func (st *Store) Ingest(items []Item, source, location string, ts time.Time) (IngestResult, error) {
	ingested := 0
	for _, item := range items {
		if item.Name == "" && item.VariantID == "" {
			continue
		}

		entry := st.resolve(Key(source, item.VariantID, item.Name), item, source)

		obs := Observation{
			MRP:          item.MRP,
			SellingPrice: item.SellingPrice,
			DiscountPct:  item.DiscountPct,
			Location:     location,
			Timestamp:    ts,
		}

		entry.mu.Lock()
		entry.s.History = append(entry.s.History, obs)
		if len(entry.s.History) > MaxObservations {
			// Evict oldest; copy so the backing array does not pin
			// evicted observations
			trimmed := make([]Observation, MaxObservations)
			copy(trimmed, entry.s.History[len(entry.s.History)-MaxObservations:])
			entry.s.History = trimmed
		}
		entry.mu.Unlock()

		ingested++
	}

	result := IngestResult{
		Ingested:     ingested,
		TotalTracked: st.TotalTracked(),
		Timestamp:    ts,
	}

	if err := st.Save(); err != nil {
		return result, err
	}
	return result, nil
}

// resolve returns the entry for key, creating it from the item's
// metadata on first sight
func (st *Store) resolve(key string, item Item, source string) *seriesEntry {
	st.mu.RLock()
	entry, ok := st.series[key]
	st.mu.RUnlock()
	if ok {
		return entry
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if entry, ok = st.series[key]; ok {
		return entry
	}
	entry = &seriesEntry{s: Series{
		Name:     item.Name,
		Packsize: item.Packsize,
		Source:   source,
	}}
	st.series[key] = entry
	return entry
}

// Query returns a summary per matching series: name substring and
// source substring filters, both case-insensitive, results ordered by
// key for stable output
func (st *Store) Query(nameQuery, source string, limit int) []Summary {
	st.mu.RLock()
	keys := make([]string, 0, len(st.series))
	for key := range st.series {
		keys = append(keys, key)
	}
	st.mu.RUnlock()
	sort.Strings(keys)

	nameQuery = strings.ToLower(nameQuery)
	source = strings.ToLower(source)

	var results []Summary
	for _, key := range keys {
		st.mu.RLock()
		entry, ok := st.series[key]
		st.mu.RUnlock()
		if !ok {
			continue
		}

		entry.mu.Lock()
		s := entry.s
		var latest *Observation
		if n := len(s.History); n > 0 {
			obs := s.History[n-1]
			latest = &obs
		}
		points := len(s.History)
		entry.mu.Unlock()

		if nameQuery != "" && !strings.Contains(strings.ToLower(s.Name), nameQuery) {
			continue
		}
		if source != "" && !strings.Contains(strings.ToLower(s.Source), source) {
			continue
		}

		summary := Summary{
			Key:         key,
			Name:        s.Name,
			Packsize:    s.Packsize,
			Source:      s.Source,
			PricePoints: points,
		}
		if latest != nil {
			summary.CurrentPrice = latest.SellingPrice
			summary.MRP = latest.MRP
			summary.DiscountPct = latest.DiscountPct
			t := latest.Timestamp
			summary.LastUpdated = &t
		}
		results = append(results, summary)

		if limit > 0 && len(results) >= limit {
			break
		}
	}

	return results
}

// History returns the full ordered observation sequence for one series
func (st *Store) History(key string) (Series, error) {
	st.mu.RLock()
	entry, ok := st.series[key]
	st.mu.RUnlock()
	if !ok {
		return Series{}, ErrSeriesNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	s := entry.s
	s.History = make([]Observation, len(entry.s.History))
	copy(s.History, entry.s.History)
	return s, nil
}

// TotalTracked returns the number of tracked series
func (st *Store) TotalTracked() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.series)
}

// Reset drops every series. Full-store reset is the only way a series
// is ever deleted.
func (st *Store) Reset() error {
	st.mu.Lock()
	st.series = make(map[string]*seriesEntry)
	st.mu.Unlock()
	return st.Save()
}
