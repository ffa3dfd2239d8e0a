package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"newsbrief/internal/cli"
	"newsbrief/internal/embed"
	"newsbrief/internal/storage"
)

// runHealth probes the external collaborators: the embedding service and,
// when configured, the digest archive.
func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 15*time.Second, "Probe timeout")

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	healthy := true

	embedder := embed.NewHTTPEmbedder(cfg.EmbeddingEndpoint, cfg.EmbeddingTimeout)
	if _, err := embedder.Embed(ctx, []string{"health probe"}); err != nil {
		logger.Error().Err(err).Str("endpoint", cfg.EmbeddingEndpoint).Msg("embedding service unreachable")
		fmt.Printf("embedding: FAIL (%v)\n", err)
		healthy = false
	} else {
		fmt.Println("embedding: OK")
	}

	if cfg.ArchiveEnabled() {
		archive, err := storage.Open(ctx, cfg.DatabaseURL, cfg.LogLevel)
		if err != nil {
			logger.Error().Err(err).Msg("database unreachable")
			fmt.Printf("database: FAIL (%v)\n", err)
			healthy = false
		} else {
			_ = archive.Close()
			fmt.Println("database: OK")
		}
	} else {
		fmt.Println("database: not configured")
	}

	if !healthy {
		return 1
	}
	return 0
}
