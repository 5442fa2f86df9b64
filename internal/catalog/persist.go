package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names under the data directory
const (
	productsFile   = "products.json"
	categoriesFile = "categories.json"
	brandsFile     = "brands.json"
)

type productsArtifact struct {
	Count     int       `json:"count"`
	ScrapedAt time.Time `json:"scraped_at"`
	Source    string    `json:"source"`
	Products  []Product `json:"products"`
}

type categoriesArtifact struct {
	Count      int        `json:"count"`
	Categories []Category `json:"categories"`
}

type brandsArtifact struct {
	Count  int     `json:"count"`
	Brands []Brand `json:"brands"`
}

// SaveArtifacts writes the three catalog files into dir
func (c *Catalog) SaveArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	products := c.Products()
	if err := writeJSON(filepath.Join(dir, productsFile), productsArtifact{
		Count:     len(products),
		ScrapedAt: c.scrapedAt,
		Source:    c.source,
		Products:  products,
	}); err != nil {
		return err
	}

	categories := c.Categories()
	if err := writeJSON(filepath.Join(dir, categoriesFile), categoriesArtifact{
		Count:      len(categories),
		Categories: categories,
	}); err != nil {
		return err
	}

	brands := c.Brands()
	return writeJSON(filepath.Join(dir, brandsFile), brandsArtifact{
		Count:  len(brands),
		Brands: brands,
	})
}

// LoadArtifacts rebuilds the indexes from the persisted catalog files.
// A missing file is an empty collection, not an error, so a fresh
// deployment starts clean.
func (c *Catalog) LoadArtifacts(dir string) error {
	var products productsArtifact
	ok, err := readJSON(filepath.Join(dir, productsFile), &products)
	if err != nil {
		return err
	}
	if ok {
		c.MergeProducts(products.Products)
		c.mu.Lock()
		c.scrapedAt = products.ScrapedAt
		c.mu.Unlock()
	}

	var categories categoriesArtifact
	ok, err = readJSON(filepath.Join(dir, categoriesFile), &categories)
	if err != nil {
		return err
	}
	if ok {
		c.MergeCategories(categories.Categories)
	}

	var brands brandsArtifact
	ok, err = readJSON(filepath.Join(dir, brandsFile), &brands)
	if err != nil {
		return err
	}
	if ok {
		c.MergeBrands(brands.Brands)
	}

	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	// Write to a temp file first so a crash mid-write cannot leave a
	// truncated artifact behind
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%s is corrupt: %w (move the file aside or delete it to start with an empty catalog)", filepath.Base(path), err)
	}
	return true, nil
}
