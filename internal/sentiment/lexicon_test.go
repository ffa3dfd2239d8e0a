package sentiment

import "testing"

func TestScoreEmptyText(t *testing.T) {
	t.Parallel()

	var lex Lexicon
	score, err := lex.Score("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected neutral score for empty text, got %v", score)
	}
}

func TestScorePolarity(t *testing.T) {
	t.Parallel()

	var lex Lexicon

	score, err := lex.Score("A wonderful victory and strong growth for the region")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score <= 0 {
		t.Fatalf("expected positive score, got %v", score)
	}

	score, err = lex.Score("War, disaster and violence follow the deadly crisis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score >= 0 {
		t.Fatalf("expected negative score, got %v", score)
	}

	score, err = lex.Score("The committee met on Tuesday to schedule next year")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected neutral score without lexicon hits, got %v", score)
	}
}

func TestScoreNegationFlips(t *testing.T) {
	t.Parallel()

	var lex Lexicon
	score, err := lex.Score("not good at all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score >= 0 {
		t.Fatalf("expected negated positive word to score negative, got %v", score)
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	var lex Lexicon
	inputs := []string{
		"win win win win win",
		"war war war war war",
		"good bad good bad",
	}
	for _, input := range inputs {
		score, err := lex.Score(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if score < -1 || score > 1 {
			t.Fatalf("score out of bounds for %q: %v", input, score)
		}
	}
}
