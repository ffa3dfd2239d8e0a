package schema

import (
	"strings"
	"testing"
	"time"
)

const validDocument = `[
  {
    "source": "BBC News",
    "title": "Parliament votes on budget",
    "description": "The vote passed narrowly.",
    "published_at": "2026-08-27T09:00:00Z",
    "region": "World",
    "url": "https://example.com/budget",
    "tags": ["budget vote"]
  },
  {
    "source": "Reuters",
    "title": "Storm warning issued",
    "region": "Asia",
    "url": "https://example.com/storm",
    "sentiment": -0.5
  }
]`

func TestParseItems(t *testing.T) {
	t.Parallel()

	items, err := ParseItems([]byte(validDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Parliament votes on budget" || first.Region != "World" {
		t.Fatalf("unexpected item: %+v", first)
	}
	if !first.PublishedAt.Equal(time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected publish time: %v", first.PublishedAt)
	}
	if len(first.Tags) != 1 || first.Tags[0] != "budget vote" {
		t.Fatalf("unexpected tags: %+v", first.Tags)
	}

	second := items[1]
	if second.Sentiment == nil || *second.Sentiment != -0.5 {
		t.Fatalf("unexpected sentiment: %+v", second.Sentiment)
	}
	if second.PublishedAt != (time.Time{}) {
		t.Fatalf("expected zero publish time, got %v", second.PublishedAt)
	}
}

func TestParseItemsRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not an array":      `{"source": "BBC"}`,
		"missing title":     `[{"source": "BBC", "region": "World", "url": "https://example.com/x"}]`,
		"empty title":       `[{"source": "BBC", "title": "", "region": "World", "url": "https://example.com/x"}]`,
		"sentiment range":   `[{"source": "BBC", "title": "T", "region": "World", "url": "https://example.com/x", "sentiment": 1.5}]`,
		"unknown field":     `[{"source": "BBC", "title": "T", "region": "World", "url": "https://example.com/x", "author": "A"}]`,
		"bad published_at":  `[{"source": "BBC", "title": "T", "region": "World", "url": "https://example.com/x", "published_at": "yesterday"}]`,
		"trailing content":  validDocument + `[]`,
		"empty document":    "",
		"relative item url": `[{"source": "BBC", "title": "T", "region": "World", "url": "/relative"}]`,
	}

	for name, document := range cases {
		if _, err := ParseItems([]byte(document)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseItemsErrorNamesOffendingIndex(t *testing.T) {
	t.Parallel()

	document := `[
  {"source": "BBC", "title": "Fine", "region": "World", "url": "https://example.com/a"},
  {"source": "BBC", "region": "World", "url": "https://example.com/b"}
]`
	_, err := ParseItems([]byte(document))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "item 1") {
		t.Fatalf("error should name the failing element: %v", err)
	}
}
