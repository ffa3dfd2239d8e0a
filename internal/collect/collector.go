// Package collect gathers news items from region-scoped RSS feeds and
// hands the pipeline a validated batch with enrichment fields unset.
package collect

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"newsbrief/internal/globaltime"
	"newsbrief/internal/news"
)

// Collector fetches and date-filters feed entries. A feed that fails to
// parse is logged and skipped; the run continues with the remaining feeds.
type Collector struct {
	parser  *gofeed.Parser
	logger  zerolog.Logger
	options Options
}

// Options controls optional full-text fetching for entries without a
// description.
type Options struct {
	FetchFullText bool
	FetchTimeout  time.Duration
}

func New(logger zerolog.Logger, options Options) *Collector {
	return &Collector{
		parser:  gofeed.NewParser(),
		logger:  logger,
		options: options,
	}
}

// Collect walks every source and returns the combined, date-filtered batch
// in feed order. URLs present in skip (already published in an earlier
// run) are dropped.
func (c *Collector) Collect(ctx context.Context, sources []Source, skip map[string]struct{}) ([]news.Item, error) {
	var items []news.Item
	for _, source := range sources {
		start, end := dateWindow(source.DaysAgo)
		for _, feedURL := range source.URLs {
			collected, err := c.collectFeed(ctx, source.Region, feedURL, start, end, skip)
			if err != nil {
				c.logger.Warn().Err(err).Str("feed", feedURL).Msg("skipping feed")
				continue
			}
			items = append(items, collected...)
		}
	}
	c.logger.Info().Int("items", len(items)).Int("sources", len(sources)).Msg("collection done")
	return items, nil
}

func (c *Collector) collectFeed(ctx context.Context, region, feedURL string, start, end time.Time, skip map[string]struct{}) ([]news.Item, error) {
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	sourceName := feed.Title
	if sourceName == "" {
		sourceName = feedURL
	}

	items := make([]news.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.PublishedParsed == nil {
			continue
		}
		published := entry.PublishedParsed.UTC()
		if published.Before(start) || published.After(end) {
			continue
		}
		if _, seen := skip[entry.Link]; seen {
			continue
		}

		item := news.Item{
			Source:      sourceName,
			Title:       entry.Title,
			Description: entry.Description,
			PublishedAt: published,
			Region:      region,
			URL:         entry.Link,
		}
		if item.Description == "" && c.options.FetchFullText {
			item.Description = c.fetchDescription(ctx, item.URL)
		}
		if err := item.Validate(); err != nil {
			c.logger.Warn().Err(err).Str("feed", feedURL).Msg("dropping malformed entry")
			continue
		}
		items = append(items, item)
	}

	c.logger.Debug().
		Str("feed", feedURL).
		Str("region", region).
		Int("kept", len(items)).
		Int("total", len(feed.Items)).
		Msg("feed collected")
	return items, nil
}

// dateWindow returns midnight daysAgo days back through the last second of
// today, both UTC.
func dateWindow(daysAgo int) (time.Time, time.Time) {
	today := globaltime.StartOfDay()
	start := today.AddDate(0, 0, -daysAgo)
	end := today.AddDate(0, 0, 1).Add(-time.Second)
	return start, end
}
