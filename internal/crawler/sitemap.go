package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// entry is one <url> element of a sitemap, with the image extension
// fields the grocery sitemaps carry.
type entry struct {
	Loc        string
	ImageLoc   string
	ImageTitle string
	LastMod    string
}

// childSitemaps returns the <loc> values of a sitemap index document.
// An empty result means the document is a flat urlset, not an index.
func childSitemaps(doc *goquery.Document) []string {
	var locs []string
	doc.Find("sitemap loc").Each(func(_ int, s *goquery.Selection) {
		if loc := strings.TrimSpace(s.Text()); loc != "" {
			locs = append(locs, loc)
		}
	})
	return locs
}

// urlEntries returns all <url> entries of a sitemap document. The
// namespaced image tags survive lenient HTML parsing as literal
// "image:loc"/"image:title" element names, hence the escaped selectors.
func urlEntries(doc *goquery.Document) []entry {
	var entries []entry
	doc.Find("url").Each(func(_ int, s *goquery.Selection) {
		e := entry{
			Loc:        strings.TrimSpace(s.Find("loc").First().Text()),
			ImageLoc:   strings.TrimSpace(s.Find("image\\:loc").First().Text()),
			ImageTitle: strings.TrimSpace(s.Find("image\\:title").First().Text()),
			LastMod:    strings.TrimSpace(s.Find("lastmod").First().Text()),
		}
		if e.Loc == "" {
			return
		}
		entries = append(entries, e)
	})
	return entries
}
