// Package logging builds the zerolog logger every command and package
// shares.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to stdout, or human-readable console
// output when environment is "local". The level string follows zerolog's
// names ("debug", "info", ...); empty means "info".
func New(environment, level string) (zerolog.Logger, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" {
		name = "info"
	}
	parsedLevel, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL=%q: %w", level, err)
	}

	logger := zerolog.New(resolveWriter(environment)).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "newsbrief").
		Logger()

	return logger, nil
}

func resolveWriter(environment string) io.Writer {
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return os.Stdout
}
