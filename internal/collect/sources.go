package collect

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one region-scoped group of RSS feeds.
type Source struct {
	Region  string   `yaml:"region"`
	URLs    []string `yaml:"urls"`
	DaysAgo int      `yaml:"days_ago"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the feed configuration. days_ago=0 collects today
// only, 1 adds yesterday, and so on.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer f.Close()

	var cfg sourcesFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode sources file: %w", err)
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}
	for i, source := range cfg.Sources {
		if strings.TrimSpace(source.Region) == "" {
			return nil, fmt.Errorf("sources[%d]: region is required", i)
		}
		if len(source.URLs) == 0 {
			return nil, fmt.Errorf("sources[%d] (%s): at least one url is required", i, source.Region)
		}
		if source.DaysAgo < 0 {
			return nil, fmt.Errorf("sources[%d] (%s): days_ago must be >= 0", i, source.Region)
		}
	}
	return cfg.Sources, nil
}
