package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"newsbrief/internal/keywords"
	"newsbrief/internal/langdetect"
	"newsbrief/internal/news"
	"newsbrief/internal/sentiment"
)

// LanguageProvider guesses the ISO 639-1 code of a text sample. An empty
// result means "no confident guess".
type LanguageProvider interface {
	Detect(text string) (string, error)
}

// SentimentProvider scores text polarity in [-1, 1].
type SentimentProvider interface {
	Score(text string) (float64, error)
}

// KeywordProvider extracts ranked key phrases from text.
type KeywordProvider interface {
	Extract(text string) ([]keywords.Keyword, error)
}

// Providers bundles the three enrichment capabilities. Nil fields are
// replaced with the built-in implementations, tests substitute stubs.
type Providers struct {
	Language  LanguageProvider
	Sentiment SentimentProvider
	Keywords  KeywordProvider
}

func (p Providers) withDefaults() Providers {
	if p.Language == nil {
		p.Language = langdetect.Lingua{}
	}
	if p.Sentiment == nil {
		p.Sentiment = sentiment.Lexicon{}
	}
	if p.Keywords == nil {
		p.Keywords = keywords.Extractor{MaxPhrases: maxTags}
	}
	return p
}

const maxTags = 5

// tagStoplist drops overly generic phrases from extracted tags.
var tagStoplist = map[string]struct{}{
	"people":     {},
	"help":       {},
	"conditions": {},
}

type categoryRule struct {
	label    string
	keywords []string
}

// categoryRules are evaluated in order; the first matching set wins.
var categoryRules = []categoryRule{
	{"Politics", []string{"politics", "government", "election", "policy", "diplomacy"}},
	{"Economy", []string{"economy", "finance", "stock", "market", "business"}},
	{"Weather", []string{"weather", "climate", "storm", "rain", "forecast"}},
	{"Sports", []string{"sports", "football", "basketball", "tennis", "olympics"}},
	{"Health", []string{"health", "medicine", "doctor", "hospital", "disease", "wellness"}},
}

const categoryGeneral = "General"

// ErrProviderUnavailable reports that one enrichment sub-rule failed for
// every record it was consulted for. Isolated failures stay local; a
// provider that is down across the whole batch must not masquerade as a
// successfully enriched (all-default) result.
var ErrProviderUnavailable = errors.New("enrichment provider unavailable")

// ruleStats tracks one sub-rule's provider calls across a batch.
type ruleStats struct {
	attempted int
	failed    int
}

func (s *ruleStats) record(err error) {
	s.attempted++
	if err != nil {
		s.failed++
	}
}

func (s *ruleStats) exhausted() bool {
	return s.attempted > 0 && s.failed == s.attempted
}

// Enrich fills absent attributes on every item. Populated fields are never
// overwritten. The four sub-rules run independently per item: when one
// provider fails the other three still complete and the failed attribute
// gets its documented default (category "General", language "unknown",
// sentiment 0.0, tags empty). When a sub-rule's provider fails for every
// record it was asked about, the batch is rejected with
// ErrProviderUnavailable instead of being returned silently degraded.
func Enrich(items []news.Item, providers Providers, logger zerolog.Logger) ([]news.Item, error) {
	providers = providers.withDefaults()

	var languageStats, sentimentStats, tagStats ruleStats

	enriched := make([]news.Item, len(items))
	for i, item := range items {
		enriched[i] = enrichOne(item, providers, logger, &languageStats, &sentimentStats, &tagStats)
	}

	for _, rule := range []struct {
		name  string
		stats *ruleStats
	}{
		{"language detection", &languageStats},
		{"sentiment scoring", &sentimentStats},
		{"tag extraction", &tagStats},
	} {
		if rule.stats.exhausted() {
			return nil, fmt.Errorf("%w: %s failed for all %d records", ErrProviderUnavailable, rule.name, rule.stats.attempted)
		}
	}
	return enriched, nil
}

func enrichOne(item news.Item, providers Providers, logger zerolog.Logger, languageStats, sentimentStats, tagStats *ruleStats) news.Item {
	if item.Category == "" {
		item.Category = inferCategory(item.Title, item.Description)
	}

	if item.Language == "" {
		code, err := detectLanguage(providers.Language, item.Title)
		languageStats.record(err)
		if err != nil {
			logger.Warn().Err(err).Str("title", item.Title).Msg("language detection failed, defaulting to unknown")
			code = ""
		}
		if code == "" {
			code = news.LanguageUnknown
		}
		item.Language = code
	}

	if item.Sentiment == nil {
		score := 0.0
		// Empty descriptions are neutral by definition; the provider is
		// not consulted and does not count toward availability.
		if strings.TrimSpace(item.Description) != "" {
			var err error
			score, err = scoreSentiment(providers.Sentiment, item.Description)
			sentimentStats.record(err)
			if err != nil {
				logger.Warn().Err(err).Str("title", item.Title).Msg("sentiment scoring failed, defaulting to neutral")
				score = 0
			}
		}
		score = clamp(roundTwo(score), -1, 1)
		item.Sentiment = &score
	}

	if item.Tags == nil {
		tags, err := extractTags(providers.Keywords, item.Text())
		tagStats.record(err)
		if err != nil {
			logger.Warn().Err(err).Str("title", item.Title).Msg("tag extraction failed, defaulting to empty")
			tags = nil
		}
		if tags == nil {
			tags = []string{}
		}
		item.Tags = tags
	}

	return item
}

// inferCategory checks each rule's keywords against the lowercased title
// and description independently; a keyword present in either field is a
// match.
func inferCategory(title, description string) string {
	titleLower := strings.ToLower(title)
	descriptionLower := strings.ToLower(description)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(titleLower, keyword) || strings.Contains(descriptionLower, keyword) {
				return rule.label
			}
		}
	}
	return categoryGeneral
}

func detectLanguage(provider LanguageProvider, title string) (code string, err error) {
	defer recoverProviderPanic(&err)
	return provider.Detect(title)
}

func scoreSentiment(provider SentimentProvider, description string) (score float64, err error) {
	defer recoverProviderPanic(&err)
	return provider.Score(description)
}

func extractTags(provider KeywordProvider, text string) (tags []string, err error) {
	defer recoverProviderPanic(&err)

	extracted, err := provider.Extract(text)
	if err != nil {
		return nil, err
	}

	tags = make([]string, 0, maxTags)
	for _, kw := range extracted {
		phrase := strings.TrimSpace(kw.Phrase)
		if phrase == "" || len(strings.Fields(phrase)) > 2 {
			continue
		}
		if _, generic := tagStoplist[strings.ToLower(phrase)]; generic {
			continue
		}
		tags = append(tags, phrase)
		if len(tags) == maxTags {
			break
		}
	}
	return tags, nil
}

// recoverProviderPanic converts a provider panic into an error so one
// misbehaving sub-rule cannot take down the rest of the batch.
func recoverProviderPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("provider panic: %v", r)
	}
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
