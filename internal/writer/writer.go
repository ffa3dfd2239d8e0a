// Package writer turns an enriched batch into a digest with a short
// narrative summary.
package writer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"newsbrief/internal/globaltime"
	"newsbrief/internal/news"
)

// Summarizer produces the digest summary text. Implementations may call an
// external model; the fallback formatter keeps runs working without one.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Writer assembles digests. MaxSentences caps how much of each description
// goes into the summarization prompt.
type Writer struct {
	summarizer   Summarizer
	maxSentences int
	logger       zerolog.Logger
}

func New(summarizer Summarizer, maxSentences int, logger zerolog.Logger) *Writer {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	return &Writer{
		summarizer:   summarizer,
		maxSentences: maxSentences,
		logger:       logger,
	}
}

// Build creates the digest for an enriched batch. The batch must not be
// empty. When the summarizer fails (or none is configured) the digest
// falls back to a plain numbered listing so delivery still happens.
func (w *Writer) Build(ctx context.Context, items []news.Item) (*news.Digest, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("cannot build digest from an empty batch")
	}

	summary := ""
	if w.summarizer != nil {
		generated, err := w.summarizer.Summarize(ctx, w.prompt(items))
		if err != nil {
			w.logger.Warn().Err(err).Msg("summarizer failed, using fallback listing")
		} else {
			summary = strings.TrimSpace(generated)
		}
	}
	if summary == "" {
		summary = fallbackSummary(items)
	}

	return &news.Digest{
		GeneratedAt: globaltime.UTC(),
		Items:       items,
		Summary:     summary,
		Region:      news.CommonRegion(items),
	}, nil
}

func (w *Writer) prompt(items []news.Item) string {
	var b strings.Builder
	b.WriteString("Please group and summarize the following news items:\n\n")
	for i, item := range items {
		description := truncateSentences(item.Description, w.maxSentences)
		fmt.Fprintf(&b, "%d. Title: %s\n   Description: %s\n\n", i+1, item.Title, description)
	}
	return b.String()
}

// fallbackSummary is the deterministic no-model digest body: one numbered
// line per story.
func fallbackSummary(items []news.Item) string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		title := item.Title
		if idx := strings.Index(title, "; "); idx > 0 {
			title = title[:idx]
		}
		line := fmt.Sprintf("%d. %s", i+1, title)
		if item.Category != "" && item.Category != "General" {
			line += fmt.Sprintf(" [%s]", item.Category)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

var sentenceBoundary = regexp.MustCompile(`(?:[.!?])\s+`)

// truncateSentences keeps at most max sentences of text.
func truncateSentences(text string, max int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || max <= 0 {
		return trimmed
	}

	boundaries := sentenceBoundary.FindAllStringIndex(trimmed, -1)
	if len(boundaries) < max {
		return trimmed
	}
	cut := boundaries[max-1]
	return strings.TrimSpace(trimmed[:cut[0]+1])
}
