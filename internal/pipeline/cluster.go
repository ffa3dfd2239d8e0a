package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"newsbrief/internal/embed"
	"newsbrief/internal/news"
)

// DefaultThreshold matches the similarity cutoff the pipeline has always
// shipped with.
const DefaultThreshold = 0.3

// ClusterOptions tunes how embeddings are fetched. Zero values fall back
// to the embed package defaults.
type ClusterOptions struct {
	BatchSize int
	Workers   int
}

// Cluster groups items whose embedding cosine similarity to a group's seed
// reaches the threshold and merges each group into one item.
//
// The grouping is seed-anchored and single-pass: items are scanned in input
// order, each unassigned item opens a group, and every other unassigned
// item joins it when its similarity to the seed crosses the threshold.
// Members are not required to be mutually similar; that is the contract,
// not transitive-closure clustering. Output is deterministic for a fixed
// embedder and input order.
func Cluster(ctx context.Context, items []news.Item, embedder embed.Embedder, threshold float64, opts ClusterOptions) ([]news.Item, error) {
	if len(items) == 0 {
		return []news.Item{}, nil
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be in (0, 1], got %v", threshold)
	}

	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].Text()
	}

	vectors, err := embed.BatchEmbed(ctx, embedder, texts, opts.BatchSize, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("embed %d items: %w", len(items), err)
	}

	matrix := cosineMatrix(vectors)
	groups := greedyGroups(matrix, threshold)

	merged := make([]news.Item, 0, len(groups))
	for _, group := range groups {
		merged = append(merged, mergeGroup(items, group))
	}
	return merged, nil
}

// cosineMatrix computes the full pairwise similarity matrix. The matrix is
// symmetric and the diagonal is 1 for non-zero vectors.
func cosineMatrix(vectors [][]float64) [][]float64 {
	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			similarity := cosineSimilarity(vectors[i], vectors[j])
			matrix[i][j] = similarity
			matrix[j][i] = similarity
		}
	}
	return matrix
}

// cosineSimilarity is dot(a,b)/(||a||*||b||), defined as 0 when either
// vector is zero.
func cosineSimilarity(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// greedyGroups runs the single deterministic linear scan over the matrix.
// Each group lists member indices in insertion order, seed first.
func greedyGroups(matrix [][]float64, threshold float64) [][]int {
	n := len(matrix)
	assigned := make([]bool, n)
	groups := make([][]int, 0, n)

	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		group := []int{i}
		assigned[i] = true

		for j := 0; j < n; j++ {
			if assigned[j] || j == i {
				continue
			}
			if matrix[i][j] >= threshold {
				group = append(group, j)
				assigned[j] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// mergeGroup synthesizes one item per group. The seed (lowest original
// index) contributes every field except title and description, which are
// joined across members in group-insertion order. A singleton group
// reproduces its seed.
func mergeGroup(items []news.Item, group []int) news.Item {
	seed := items[group[0]]

	titles := make([]string, 0, len(group))
	descriptions := make([]string, 0, len(group))
	for _, idx := range group {
		titles = append(titles, items[idx].Title)
		if description := strings.TrimSpace(items[idx].Description); description != "" {
			descriptions = append(descriptions, description)
		}
	}

	merged := seed
	merged.Title = strings.Join(titles, "; ")
	merged.Description = strings.Join(descriptions, " ")
	return merged
}
