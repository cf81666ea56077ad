package sentiment

import (
	"context"
	"strings"

	"github.com/jonreiter/govader"
)

// LexiconAnalyzer scores text offline with the VADER lexicon and rules. The
// score is VADER's normalized compound polarity.
type LexiconAnalyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewLexiconAnalyzer loads the VADER lexicon once; the analyzer is read-only
// afterwards and safe to share.
func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

func (l *LexiconAnalyzer) Name() string { return EngineLexicon }

// Score never fails. Blank text scores 0.
func (l *LexiconAnalyzer) Score(_ context.Context, text string) (float64, error) {
	if isBlank(text) {
		return 0, nil
	}
	return clamp(l.vader.PolarityScores(text).Compound), nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
