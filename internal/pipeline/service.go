// Package pipeline is the deduplication and semantic enrichment engine:
// exact-duplicate removal, embedding-based clustering, and attribute
// inference over one in-memory batch of news items.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"newsbrief/internal/embed"
	"newsbrief/internal/news"
)

// ErrEmptyBatch is returned when a run has nothing to process. Callers
// should treat it as a reportable no-op, not a crash.
var ErrEmptyBatch = errors.New("no items to process")

// Service runs the three engine stages in strict sequence:
// Deduplicate -> Cluster -> Enrich. Each stage consumes the full output of
// the previous one; there is no partial or streaming mode.
type Service struct {
	embedder  embed.Embedder
	providers Providers
	threshold float64
	batchSize int
	workers   int
	logger    zerolog.Logger
}

// Config configures a Service. Zero values pick the package defaults.
type Config struct {
	Threshold float64
	BatchSize int
	Workers   int
	Providers Providers
}

func NewService(embedder embed.Embedder, logger zerolog.Logger, cfg Config) *Service {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		embedder:  embedder,
		providers: cfg.Providers,
		threshold: threshold,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		logger:    logger,
	}
}

// Process transforms a raw batch into the enriched batch handed to the
// digest writer. Records missing required fields are rejected up front and
// logged; the batch continues with the remaining valid records. An empty
// (or fully rejected) batch yields ErrEmptyBatch.
func (s *Service) Process(ctx context.Context, items []news.Item) ([]news.Item, error) {
	if s == nil || s.embedder == nil {
		return nil, fmt.Errorf("pipeline service is not initialized")
	}
	if len(items) == 0 {
		s.logger.Warn().Msg("empty batch handed to pipeline")
		return nil, ErrEmptyBatch
	}

	valid := make([]news.Item, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			s.logger.Warn().Err(err).Str("url", item.URL).Msg("rejecting invalid record")
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		s.logger.Warn().Int("rejected", len(items)).Msg("no valid records in batch")
		return nil, ErrEmptyBatch
	}

	deduped := Dedupe(valid)
	s.logger.Info().
		Int("input", len(valid)).
		Int("kept", len(deduped)).
		Int("duplicates", len(valid)-len(deduped)).
		Msg("exact-duplicate filter done")

	clustered, err := Cluster(ctx, deduped, s.embedder, s.threshold, ClusterOptions{
		BatchSize: s.batchSize,
		Workers:   s.workers,
	})
	if err != nil {
		return nil, fmt.Errorf("clustering stage: %w", err)
	}
	s.logger.Info().
		Int("input", len(deduped)).
		Int("clusters", len(clustered)).
		Float64("threshold", s.threshold).
		Msg("similarity clustering done")

	enriched, err := Enrich(clustered, s.providers, s.logger)
	if err != nil {
		return nil, fmt.Errorf("enrichment stage: %w", err)
	}
	s.logger.Info().Int("items", len(enriched)).Msg("attribute enrichment done")

	return enriched, nil
}
