// Package cli holds the flag helpers shared by the subcommands.
package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// envFileVar, when set, wins over any --env flag value.
const envFileVar = "NEWSBRIEF_ENV_FILE"

// EnvLoader resolves which .env file to load. Candidates are tried in a
// fixed order: the env var override, the flag value, its basename, and
// finally the default path.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers the --env flag on fs and returns the loader bound
// to it.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	return &EnvLoader{
		value:       fs.String("env", defaultPath, description),
		defaultPath: defaultPath,
	}
}

// Load walks the candidate paths and loads the first one that exists,
// returning the path it used. Values in the file override the inherited
// environment.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	if custom := strings.TrimSpace(os.Getenv(envFileVar)); custom != "" {
		if err := godotenv.Overload(custom); err == nil {
			log.Printf("Loaded environment from %s: %s", envFileVar, custom)
			return custom, nil
		}
		log.Printf("Warning: failed to load %s=%s", envFileVar, custom)
	}

	requested := l.defaultPath
	if l.value != nil && strings.TrimSpace(*l.value) != "" {
		requested = strings.TrimSpace(*l.value)
	}

	candidates := []string{requested}
	if base := filepath.Base(requested); base != "" && base != requested {
		candidates = append(candidates, base)
	}
	if requested != l.defaultPath {
		candidates = append(candidates, l.defaultPath)
	}

	for _, candidate := range candidates {
		if err := godotenv.Overload(candidate); err == nil {
			log.Printf("Loaded environment from: %s", candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to load env file from %s", requested)
}
