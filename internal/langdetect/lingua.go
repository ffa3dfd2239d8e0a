// Package langdetect wraps lingua-go behind a small, failure-tolerant API.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector-building is expensive, so the shared detector is built lazily
// and reused for the process lifetime.
var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// minLetters is the smallest sample lingua gives a usable answer for.
const minLetters = 6

// Lingua detects the ISO 639-1 language code of a text sample. It returns
// "" when the sample is blank, too short, or the detector has no confident
// guess; it never returns an error for unusable input.
type Lingua struct{}

func (Lingua) Detect(text string) (string, error) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return "", nil
	}

	letters := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minLetters {
		return "", nil
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return "", nil
	}
	return NormalizeCode(language.IsoCode639_1().String()), nil
}

// NormalizeCode lowercases a language tag and returns its primary subtag
// ("en" from "EN-us"). Invalid tags normalize to "".
func NormalizeCode(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return ""
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		tag = tag[:dash]
	}
	for _, r := range tag {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	if len(tag) != 2 {
		return ""
	}
	return tag
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
