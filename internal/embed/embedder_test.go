package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	if got := NormalizeEndpoint("http://127.0.0.1:8844"); got != "http://127.0.0.1:8844/embed" {
		t.Fatalf("unexpected endpoint normalization: %q", got)
	}
	if got := NormalizeEndpoint("http://127.0.0.1:8844/v1/embeddings"); got != "http://127.0.0.1:8844/v1/embeddings" {
		t.Fatalf("unexpected endpoint normalization for explicit path: %q", got)
	}
	if got := NormalizeEndpoint("  "); got != DefaultEndpoint {
		t.Fatalf("expected default endpoint for blank input, got %q", got)
	}
}

func TestHTTPEmbedderRoundTrip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Texts []string `json:"texts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		vectors := make([][]float64, len(req.Texts))
		for i, text := range req.Texts {
			vectors[i] = []float64{float64(len(text)), 1}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": vectors})
	}))
	defer server.Close()

	embedder := NewHTTPEmbedder(server.URL, 0)
	vectors, err := embedder.Embed(context.Background(), []string{"ab", "abcd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 2 || vectors[1][0] != 4 {
		t.Fatalf("vectors out of input order: %v", vectors)
	}
}

func TestHTTPEmbedderServiceError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder := NewHTTPEmbedder(server.URL, 0)
	if _, err := embedder.Embed(context.Background(), []string{"text"}); err == nil {
		t.Fatalf("expected error from failing service")
	} else if !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = []float64{float64(len(text))}
	}
	return vectors, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	return nil, fmt.Errorf("provider down")
}

func TestBatchEmbedPreservesOrder(t *testing.T) {
	t.Parallel()

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}

	vectors, err := BatchEmbed(context.Background(), stubEmbedder{}, texts, 4, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, vector := range vectors {
		if len(vector) != 1 || vector[0] != float64(i+1) {
			t.Fatalf("vector %d out of order: %v", i, vector)
		}
	}
}

func TestBatchEmbedEmptyInput(t *testing.T) {
	t.Parallel()

	vectors, err := BatchEmbed(context.Background(), stubEmbedder{}, nil, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors != nil {
		t.Fatalf("expected nil vectors for empty input, got %v", vectors)
	}
}

func TestBatchEmbedPropagatesFailure(t *testing.T) {
	t.Parallel()

	if _, err := BatchEmbed(context.Background(), failingEmbedder{}, []string{"a", "b"}, 1, 2); err == nil {
		t.Fatalf("expected provider failure to propagate")
	}
}
