// Package sentiment scores text polarity with a fixed English lexicon.
// It trades accuracy for determinism: no model downloads, no network.
package sentiment

import (
	"strings"
	"unicode"
)

var positiveWords = map[string]struct{}{
	"achievement": {}, "advance": {}, "agree": {}, "agreement": {}, "approve": {},
	"benefit": {}, "best": {}, "boost": {}, "breakthrough": {}, "calm": {},
	"celebrate": {}, "champion": {}, "cure": {}, "develop": {}, "donate": {},
	"effective": {}, "encourage": {}, "excellent": {}, "fair": {}, "gain": {},
	"good": {}, "grow": {}, "growth": {}, "happy": {}, "heal": {},
	"help": {}, "hope": {}, "improve": {}, "improvement": {}, "innovative": {},
	"launch": {}, "peace": {}, "positive": {}, "praise": {}, "progress": {},
	"promising": {}, "prosper": {}, "protect": {}, "proud": {}, "rally": {},
	"recover": {}, "recovery": {}, "relief": {}, "rescue": {}, "rise": {},
	"safe": {}, "secure": {}, "strong": {}, "succeed": {}, "success": {},
	"successful": {}, "support": {}, "surge": {}, "thrive": {}, "triumph": {},
	"victory": {}, "welcome": {}, "win": {}, "winner": {}, "wonderful": {},
}

var negativeWords = map[string]struct{}{
	"abuse": {}, "accident": {}, "attack": {}, "bad": {}, "ban": {},
	"blame": {}, "catastrophe": {}, "collapse": {}, "concern": {}, "conflict": {},
	"crash": {}, "crime": {}, "crisis": {}, "critical": {}, "damage": {},
	"danger": {}, "dangerous": {}, "dead": {}, "death": {}, "decline": {},
	"defeat": {}, "deficit": {}, "destroy": {}, "destruction": {}, "die": {},
	"disaster": {}, "disease": {}, "drop": {}, "fail": {}, "failure": {},
	"fear": {}, "fight": {}, "flood": {}, "fraud": {}, "harm": {},
	"hurt": {}, "injure": {}, "injury": {}, "kill": {}, "loss": {},
	"lose": {}, "negative": {}, "outbreak": {}, "panic": {}, "poor": {},
	"protest": {}, "recession": {}, "reject": {}, "risk": {}, "scandal": {},
	"shortage": {}, "strike": {}, "threat": {}, "tragedy": {}, "victim": {},
	"violence": {}, "violent": {}, "war": {}, "warn": {}, "worst": {},
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {}, "hardly": {},
	"cannot": {}, "can't": {}, "won't": {}, "don't": {}, "doesn't": {}, "isn't": {},
}

// Lexicon is a lexical polarity scorer producing values in [-1, 1].
type Lexicon struct{}

// Score counts positive and negative lexicon hits, flipping polarity when
// the preceding token is a negation. Texts with no hits score 0.
func (Lexicon) Score(text string) (float64, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0, nil
	}

	var positive, negative int
	for i, token := range tokens {
		negated := i > 0 && isNegation(tokens[i-1])

		if _, ok := positiveWords[token]; ok {
			if negated {
				negative++
			} else {
				positive++
			}
			continue
		}
		if _, ok := negativeWords[token]; ok {
			if negated {
				positive++
			} else {
				negative++
			}
		}
	}

	hits := positive + negative
	if hits == 0 {
		return 0, nil
	}
	return float64(positive-negative) / float64(hits), nil
}

func isNegation(token string) bool {
	_, ok := negations[token]
	return ok
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
