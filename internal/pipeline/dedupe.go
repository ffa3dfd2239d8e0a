package pipeline

import (
	"strings"

	"newsbrief/internal/news"
)

// Dedupe drops items whose normalized title was already seen, keeping the
// first occurrence. Comparison is by title only; two different stories
// sharing one headline collapse to the first. That is the documented
// contract, descriptions and URLs are not consulted.
func Dedupe(items []news.Item) []news.Item {
	seen := make(map[string]struct{}, len(items))
	kept := make([]news.Item, 0, len(items))

	for _, item := range items {
		key := normalizeTitle(item.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
