package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"newsbrief/internal/cli"
	"newsbrief/internal/collect"
	"newsbrief/internal/embed"
	"newsbrief/internal/pipeline"
	"newsbrief/internal/storage"
	"newsbrief/internal/telegram"
	"newsbrief/internal/writer"
)

func runOnce(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Overall run timeout")
	sourcesPath := fs.String("sources", "", "Path to sources YAML (overrides NB_SOURCES_PATH)")
	dryRun := fs.Bool("dry-run", false, "Skip Telegram delivery and archiving")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	path := cfg.SourcesPath
	if *sourcesPath != "" {
		path = *sourcesPath
	}
	sources, err := collect.LoadSources(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load sources: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var archive *storage.Archive
	if cfg.ArchiveEnabled() && !*dryRun {
		archive, err = storage.Open(ctx, cfg.DatabaseURL, cfg.LogLevel)
		if err != nil {
			logger.Error().Err(err).Msg("archive connection failed")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer func() { _ = archive.Close() }()
	}

	skip, err := archive.PublishedURLs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("loading published urls failed")
		fmt.Fprintf(os.Stderr, "Failed to load published URLs: %v\n", err)
		return 1
	}

	collector := collect.New(logger, collect.Options{
		FetchFullText: cfg.FetchFullText,
		FetchTimeout:  cfg.FetchTimeout,
	})
	collectCtx, collectCancel := context.WithTimeout(ctx, cfg.CollectorTimeout)
	items, err := collector.Collect(collectCtx, sources, skip)
	collectCancel()
	if err != nil {
		logger.Error().Err(err).Msg("collection failed")
		fmt.Fprintf(os.Stderr, "Collection failed: %v\n", err)
		return 1
	}
	if len(items) == 0 {
		logger.Info().Msg("no new items collected, nothing to report")
		fmt.Println("no new items")
		return 0
	}

	service := pipeline.NewService(
		embed.NewHTTPEmbedder(cfg.EmbeddingEndpoint, cfg.EmbeddingTimeout),
		logger,
		pipeline.Config{
			Threshold: cfg.SimilarityThreshold,
			BatchSize: cfg.EmbeddingBatch,
			Workers:   cfg.EmbeddingWorkers,
		},
	)

	processed, err := service.Process(ctx, items)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyBatch) {
			logger.Info().Msg("batch emptied during processing, nothing to report")
			fmt.Println("no new items")
			return 0
		}
		logger.Error().Err(err).Msg("pipeline failed")
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		return 1
	}

	var summarizer writer.Summarizer
	if cfg.GeminiAPIKey != "" {
		gemini, err := writer.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini unavailable, falling back to plain listing")
		} else {
			defer gemini.Close()
			summarizer = gemini
		}
	}

	digest, err := writer.New(summarizer, cfg.MaxDigestSentences, logger).Build(ctx, processed)
	if err != nil {
		logger.Error().Err(err).Msg("digest generation failed")
		fmt.Fprintf(os.Stderr, "Digest generation failed: %v\n", err)
		return 1
	}

	if cfg.PublishEnabled() && !*dryRun {
		client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Telegram configuration invalid: %v\n", err)
			return 2
		}
		if err := client.SendDigest(ctx, digest); err != nil {
			logger.Error().Err(err).Msg("digest delivery failed")
			fmt.Fprintf(os.Stderr, "Digest delivery failed: %v\n", err)
			return 1
		}
	} else {
		fmt.Println(telegram.FormatDigest(digest))
	}

	if err := archive.SaveDigest(ctx, digest); err != nil {
		logger.Error().Err(err).Msg("archiving digest failed")
		fmt.Fprintf(os.Stderr, "Archiving digest failed: %v\n", err)
		return 1
	}

	logger.Info().
		Int("collected", len(items)).
		Int("reported", len(processed)).
		Msg("run complete")
	return 0
}
