// Package app wires configuration, logging and the pipeline stages into CLI
// commands.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"newsbrief/internal/cli"
	"newsbrief/internal/config"
	"newsbrief/internal/logging"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "run", "run-once":
		return runOnce(args[1:])
	case "collect":
		return runCollect(args[1:])
	case "process":
		return runProcess(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "newsbrief CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newsbrief <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Probe the embedding service and the digest archive")
	fmt.Fprintln(os.Stderr, "  run       Collect feeds, run the pipeline, and deliver the digest")
	fmt.Fprintln(os.Stderr, "  run-once  Alias for run")
	fmt.Fprintln(os.Stderr, "  collect   Fetch configured feeds and print the raw batch as JSON")
	fmt.Fprintln(os.Stderr, "  process   Run dedup + clustering + enrichment over an items JSON file")
	fmt.Fprintln(os.Stderr, "  validate  Validate an items JSON file against the record schema")
	fmt.Fprintln(os.Stderr, "  serve     Start the HTTP API")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"newsbrief <command> -h\" for command-specific flags.")
}

// bootstrap loads the env file, configuration and logger shared by every
// command.
func bootstrap(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, logger, nil
}
