package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"newsbrief/internal/cli"
	"newsbrief/internal/embed"
	"newsbrief/internal/pipeline"
	"newsbrief/internal/schema"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Processing timeout")
	itemsPath := fs.String("items", "", "Path to a JSON array of item records (required)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *itemsPath == "" {
		fmt.Fprintln(os.Stderr, "--items is required")
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	items, err := schema.LoadItems(*itemsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid items file: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

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
			fmt.Fprintln(os.Stderr, "Batch is empty")
			return 1
		}
		logger.Error().Err(err).Msg("pipeline failed")
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(processed); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode items: %v\n", err)
		return 1
	}
	return 0
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	itemsPath := fs.String("items", "", "Path to a JSON array of item records (required)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	paths := fs.Args()
	if *itemsPath != "" {
		paths = append([]string{*itemsPath}, paths...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: newsbrief validate [--items FILE] [FILE ...]")
		return 2
	}

	failed := false
	for _, path := range paths {
		items, err := schema.LoadItems(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: INVALID: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("%s: OK (%d items)\n", path, len(items))
	}
	if failed {
		return 1
	}
	return 0
}
