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
	"newsbrief/internal/collect"
)

func runCollect(args []string) int {
	fs := flag.NewFlagSet("collect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Collection timeout")
	sourcesPath := fs.String("sources", "", "Path to sources YAML (overrides NB_SOURCES_PATH)")

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

	collector := collect.New(logger, collect.Options{
		FetchFullText: cfg.FetchFullText,
		FetchTimeout:  cfg.FetchTimeout,
	})
	items, err := collector.Collect(ctx, sources, nil)
	if err != nil {
		logger.Error().Err(err).Msg("collection failed")
		fmt.Fprintf(os.Stderr, "Collection failed: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(items); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode items: %v\n", err)
		return 1
	}
	return 0
}
