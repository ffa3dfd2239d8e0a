package storage

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm/logger"

	"newsbrief/internal/news"
)

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	sentiment := 0.25
	published := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	digest := &news.Digest{
		GeneratedAt: time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC),
		Region:      "World",
		Summary:     "1. Something happened.",
		Items: []news.Item{
			{
				Source:      "BBC News",
				Title:       "Something happened",
				Description: "Details inside.",
				PublishedAt: published,
				Region:      "World",
				URL:         "https://example.com/story",
				Category:    "Politics",
				Language:    "en",
				Sentiment:   &sentiment,
				Tags:        []string{"election results", "parliament"},
			},
		},
	}

	record := toRecord(digest)
	if record.Items[0].Tags != "election results, parliament" {
		t.Fatalf("unexpected serialized tags: %q", record.Items[0].Tags)
	}

	restored := fromRecord(*record)
	if restored.Summary != digest.Summary || restored.Region != digest.Region {
		t.Fatalf("digest fields lost in round trip: %+v", restored)
	}
	item := restored.Items[0]
	if item.Sentiment == nil || *item.Sentiment != sentiment {
		t.Fatalf("sentiment lost in round trip: %+v", item.Sentiment)
	}
	if !item.PublishedAt.Equal(published) {
		t.Fatalf("published date lost in round trip: %v", item.PublishedAt)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "election results" {
		t.Fatalf("tags lost in round trip: %+v", item.Tags)
	}
}

func TestRecordRoundTripEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	digest := &news.Digest{
		GeneratedAt: time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC),
		Summary:     "1. Bare story.",
		Items: []news.Item{
			{Source: "Reuters", Title: "Bare story", Region: "World", URL: "https://example.com/bare"},
		},
	}

	record := toRecord(digest)
	if record.Items[0].PublishedAt != nil {
		t.Fatalf("zero publish time must map to NULL, got %v", record.Items[0].PublishedAt)
	}

	restored := fromRecord(*record)
	item := restored.Items[0]
	if item.Tags != nil {
		t.Fatalf("empty tags column must restore as nil slice, got %+v", item.Tags)
	}
	if !item.PublishedAt.IsZero() {
		t.Fatalf("expected zero publish time, got %v", item.PublishedAt)
	}
}

func TestNilArchiveIsNoOp(t *testing.T) {
	t.Parallel()

	var archive *Archive
	if err := archive.SaveDigest(context.Background(), &news.Digest{}); err != nil {
		t.Fatalf("nil archive save must be a no-op: %v", err)
	}
	urls, err := archive.PublishedURLs(context.Background())
	if err != nil || len(urls) != 0 {
		t.Fatalf("nil archive must yield empty skip set, got %v, %v", urls, err)
	}
	digests, err := archive.RecentDigests(context.Background(), 5)
	if err != nil || digests != nil {
		t.Fatalf("nil archive must yield no digests, got %v, %v", digests, err)
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("nil archive close: %v", err)
	}
}

func TestResolveGormLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]logger.LogLevel{
		"debug":   logger.Info,
		"trace":   logger.Info,
		"info":    logger.Warn,
		"":        logger.Warn,
		"error":   logger.Error,
		"UNKNOWN": logger.Warn,
	}
	for input, want := range cases {
		if got := resolveGormLogLevel(input); got != want {
			t.Fatalf("resolveGormLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
