// Package schema validates news item records supplied as JSON files before
// they enter the pipeline.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"newsbrief/internal/news"
)

//go:embed news_item.schema.json
var newsItemSchemaJSON string

type itemPayload struct {
	Source      string   `json:"source"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PublishedAt string   `json:"published_at"`
	Region      string   `json:"region"`
	URL         string   `json:"url"`
	Category    string   `json:"category"`
	Language    string   `json:"language"`
	Sentiment   *float64 `json:"sentiment"`
	Tags        []string `json:"tags"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// LoadItems reads a JSON array of item records from path and validates each
// element against the embedded schema.
func LoadItems(path string) ([]news.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	return ParseItems(raw)
}

// ParseItems validates a JSON array of item records.
func ParseItems(raw []byte) ([]news.Item, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode items JSON: %w", err)
	}

	elements, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("items document must be a JSON array")
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	items := make([]news.Item, 0, len(elements))
	for i, element := range elements {
		if err := schema.Validate(element); err != nil {
			return nil, fmt.Errorf("item %d failed schema validation: %w", i, err)
		}

		normalized, err := json.Marshal(element)
		if err != nil {
			return nil, fmt.Errorf("item %d: normalize JSON: %w", i, err)
		}
		var payload itemPayload
		if err := json.Unmarshal(normalized, &payload); err != nil {
			return nil, fmt.Errorf("item %d: unmarshal: %w", i, err)
		}

		item, err := toItem(payload)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func toItem(payload itemPayload) (news.Item, error) {
	item := news.Item{
		Source:      payload.Source,
		Title:       payload.Title,
		Description: payload.Description,
		Region:      payload.Region,
		URL:         payload.URL,
		Category:    payload.Category,
		Language:    payload.Language,
		Sentiment:   payload.Sentiment,
		Tags:        payload.Tags,
	}
	if trimmed := strings.TrimSpace(payload.PublishedAt); trimmed != "" {
		published, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return news.Item{}, fmt.Errorf("published_at must be RFC3339: %w", err)
		}
		item.PublishedAt = published
	}
	if err := item.Validate(); err != nil {
		return news.Item{}, err
	}
	return item, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("news_item.schema.json", strings.NewReader(newsItemSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("news_item.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("document contains trailing content")
	}
	return value, nil
}
