// Package keywords extracts short key phrases from news text. Candidates
// are 1- and 2-token n-grams ranked by frequency and position, then picked
// greedily with a redundancy penalty so the chosen set stays diverse.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// Keyword is one extracted phrase with its relevance score in (0, 1].
type Keyword struct {
	Phrase string
	Score  float64
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {},
	"of": {}, "at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"against": {}, "between": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "to": {}, "from": {},
	"up": {}, "down": {}, "in": {}, "out": {}, "on": {}, "off": {},
	"over": {}, "under": {}, "again": {}, "further": {}, "then": {}, "once": {},
	"here": {}, "there": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "only": {}, "own": {},
	"same": {}, "so": {}, "than": {}, "too": {}, "very": {}, "can": {},
	"will": {}, "just": {}, "should": {}, "now": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "have": {},
	"has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "as": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"he": {}, "she": {}, "they": {}, "them": {}, "his": {}, "her": {},
	"their": {}, "we": {}, "you": {}, "your": {}, "who": {}, "which": {},
	"what": {}, "says": {}, "said": {}, "say": {}, "new": {}, "also": {},
	"not": {}, "no": {}, "would": {}, "could": {}, "may": {}, "might": {},
	"amid": {}, "year": {}, "years": {},
}

// redundancyPenalty is the share of a candidate's score removed per token
// it has in common with already chosen phrases.
const redundancyPenalty = 0.5

// bigramBoost compensates for bigrams occurring less often than their
// component unigrams.
const bigramBoost = 1.5

// Extractor produces up to MaxPhrases keywords per document.
type Extractor struct {
	MaxPhrases int
}

// Extract returns ranked keywords for the text. A nil slice is returned
// when the text yields no candidates; this is a valid outcome, not an
// error.
func (e Extractor) Extract(text string) ([]Keyword, error) {
	limit := e.MaxPhrases
	if limit <= 0 {
		limit = 5
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	candidates := collectCandidates(tokens)
	if len(candidates) == 0 {
		return nil, nil
	}

	// Stable order: score descending, then first occurrence.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].firstIndex < candidates[j].firstIndex
	})

	return selectDiverse(candidates, limit), nil
}

type candidate struct {
	phrase     string
	tokens     []string
	score      float64
	firstIndex int
}

func collectCandidates(tokens []string) []candidate {
	type stat struct {
		count      int
		firstIndex int
		tokens     []string
	}
	stats := make(map[string]*stat)

	record := func(phrase string, index int, parts ...string) {
		s, ok := stats[phrase]
		if !ok {
			stats[phrase] = &stat{count: 1, firstIndex: index, tokens: parts}
			return
		}
		s.count++
	}

	for i, token := range tokens {
		if isStopword(token) || len([]rune(token)) < 3 {
			continue
		}
		record(token, i, token)
	}
	for i := 0; i+1 < len(tokens); i++ {
		left, right := tokens[i], tokens[i+1]
		if isStopword(left) || isStopword(right) {
			continue
		}
		if len([]rune(left)) < 3 || len([]rune(right)) < 3 {
			continue
		}
		record(left+" "+right, i, left, right)
	}

	if len(stats) == 0 {
		return nil
	}

	maxScore := 0.0
	raw := make([]candidate, 0, len(stats))
	for phrase, s := range stats {
		score := float64(s.count)
		if len(s.tokens) == 2 {
			score *= bigramBoost
		}
		// Earlier phrases carry slightly more weight, titles come first.
		score *= 1 + 1/float64(s.firstIndex+2)
		if score > maxScore {
			maxScore = score
		}
		raw = append(raw, candidate{
			phrase:     phrase,
			tokens:     s.tokens,
			score:      score,
			firstIndex: s.firstIndex,
		})
	}
	for i := range raw {
		raw[i].score /= maxScore
	}
	return raw
}

// selectDiverse greedily picks candidates, discounting each by the token
// overlap with everything already picked.
func selectDiverse(candidates []candidate, limit int) []Keyword {
	chosen := make([]Keyword, 0, limit)
	chosenTokens := make(map[string]struct{})

	for _, c := range candidates {
		if len(chosen) >= limit {
			break
		}

		overlap := 0
		for _, token := range c.tokens {
			if _, ok := chosenTokens[token]; ok {
				overlap++
			}
		}
		effective := c.score * (1 - redundancyPenalty*float64(overlap)/float64(len(c.tokens)))
		if effective <= 0 {
			continue
		}

		chosen = append(chosen, Keyword{Phrase: c.phrase, Score: effective})
		for _, token := range c.tokens {
			chosenTokens[token] = struct{}{}
		}
	}
	return chosen
}

func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
