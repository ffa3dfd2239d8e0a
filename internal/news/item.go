// Package news defines the data model shared by every pipeline stage.
package news

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// LanguageUnknown is the sentinel assigned when language detection cannot
// produce a confident guess.
const LanguageUnknown = "unknown"

// Item is one news record. Source, Title and URL are always present after
// creation. Category, Language, Sentiment and Tags start unset and are
// filled during enrichment; a nil Tags slice means "not yet computed",
// while an empty non-nil slice means extraction ran and found nothing.
type Item struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
	Region      string    `json:"region"`
	URL         string    `json:"url"`
	Tags        []string  `json:"tags,omitempty"`
	Category    string    `json:"category,omitempty"`
	Language    string    `json:"language,omitempty"`
	Sentiment   *float64  `json:"sentiment,omitempty"`
}

// Validate checks the required-field invariant. Records failing validation
// must not enter the pipeline: merge and category logic assume these fields
// are present.
func (i *Item) Validate() error {
	if i == nil {
		return fmt.Errorf("item is nil")
	}
	if strings.TrimSpace(i.Source) == "" {
		return fmt.Errorf("source must not be empty")
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if strings.TrimSpace(i.URL) == "" {
		return fmt.Errorf("url must not be empty")
	}
	parsed, err := url.Parse(i.URL)
	if err != nil || !parsed.IsAbs() {
		return fmt.Errorf("url %q is not absolute", i.URL)
	}
	if i.Sentiment != nil && (*i.Sentiment < -1.0 || *i.Sentiment > 1.0) {
		return fmt.Errorf("sentiment %v out of [-1, 1]", *i.Sentiment)
	}
	return nil
}

// Text returns the title and description joined for embedding and
// keyword extraction.
func (i *Item) Text() string {
	title := strings.TrimSpace(i.Title)
	body := strings.TrimSpace(i.Description)
	switch {
	case body == "":
		return title
	case title == "":
		return body
	default:
		return title + " " + body
	}
}

// Digest is the final product of one run: the enriched items plus the
// generated summary.
type Digest struct {
	GeneratedAt time.Time `json:"date_generated"`
	Items       []Item    `json:"items"`
	Summary     string    `json:"summary"`
	Region      string    `json:"region,omitempty"`
}

// CommonRegion returns the region shared by every item, or "" when the
// batch is mixed-region or empty.
func CommonRegion(items []Item) string {
	if len(items) == 0 {
		return ""
	}
	region := items[0].Region
	for _, item := range items[1:] {
		if item.Region != region {
			return ""
		}
	}
	return region
}
