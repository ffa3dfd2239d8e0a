package writer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"newsbrief/internal/globaltime"
	"newsbrief/internal/news"
)

type stubSummarizer struct {
	summary string
	err     error
}

func (s stubSummarizer) Summarize(context.Context, string) (string, error) {
	return s.summary, s.err
}

func digestItem(title, region string) news.Item {
	return news.Item{
		Source:   "BBC News",
		Title:    title,
		Region:   region,
		URL:      "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Category: "General",
	}
}

func TestBuildEmptyBatch(t *testing.T) {
	t.Parallel()

	w := New(stubSummarizer{summary: "1. x"}, 3, zerolog.Nop())
	if _, err := w.Build(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestBuildUsesSummarizer(t *testing.T) {
	globaltime.SetMockTime(time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC))
	defer globaltime.ResetTime()

	w := New(stubSummarizer{summary: "1. Something happened."}, 3, zerolog.Nop())
	digest, err := w.Build(context.Background(), []news.Item{digestItem("Something happened", "World")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest.Summary != "1. Something happened." {
		t.Fatalf("unexpected summary: %q", digest.Summary)
	}
	if !digest.GeneratedAt.Equal(time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected generation time: %v", digest.GeneratedAt)
	}
	if digest.Region != "World" {
		t.Fatalf("expected common region, got %q", digest.Region)
	}
}

func TestBuildFallsBackOnSummarizerFailure(t *testing.T) {
	t.Parallel()

	w := New(stubSummarizer{err: fmt.Errorf("model offline")}, 3, zerolog.Nop())
	items := []news.Item{
		digestItem("First story", "World"),
		digestItem("Second story", "World"),
	}
	digest, err := w.Build(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(digest.Summary, "1. First story") {
		t.Fatalf("unexpected fallback summary: %q", digest.Summary)
	}
	if !strings.Contains(digest.Summary, "2. Second story") {
		t.Fatalf("fallback summary missing second item: %q", digest.Summary)
	}
}

func TestBuildNoSummarizer(t *testing.T) {
	t.Parallel()

	w := New(nil, 3, zerolog.Nop())
	digest, err := w.Build(context.Background(), []news.Item{digestItem("Solo story", "Asia")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest.Summary != "1. Solo story" {
		t.Fatalf("unexpected summary: %q", digest.Summary)
	}
}

func TestBuildMixedRegion(t *testing.T) {
	t.Parallel()

	w := New(nil, 3, zerolog.Nop())
	items := []news.Item{
		digestItem("World story", "World"),
		digestItem("Asia story", "Asia"),
	}
	digest, err := w.Build(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest.Region != "" {
		t.Fatalf("expected empty region for mixed batch, got %q", digest.Region)
	}
}

func TestFallbackSummaryUsesFirstMergedTitle(t *testing.T) {
	t.Parallel()

	item := digestItem("Merged headline; Later variant", "World")
	got := fallbackSummary([]news.Item{item})
	if got != "1. Merged headline" {
		t.Fatalf("unexpected fallback line: %q", got)
	}
}

func TestTruncateSentences(t *testing.T) {
	t.Parallel()

	text := "One. Two! Three? Four."
	if got := truncateSentences(text, 2); got != "One. Two!" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateSentences(text, 10); got != text {
		t.Fatalf("expected untouched text, got %q", got)
	}
	if got := truncateSentences("", 2); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestPromptIncludesItems(t *testing.T) {
	t.Parallel()

	w := New(nil, 2, zerolog.Nop())
	item := digestItem("Headline", "World")
	item.Description = "First. Second. Third."
	prompt := w.prompt([]news.Item{item})

	if !strings.Contains(prompt, "1. Title: Headline") {
		t.Fatalf("prompt missing title: %q", prompt)
	}
	if strings.Contains(prompt, "Third.") {
		t.Fatalf("prompt should truncate to two sentences: %q", prompt)
	}
}
