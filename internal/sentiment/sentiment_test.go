package sentiment

import (
	"context"
	"errors"
	"testing"

	"resumescreen/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Positive, Classify(0.01))
	assert.Equal(t, Negative, Classify(-0.2))
	assert.Equal(t, Neutral, Classify(0))
}

func TestLexiconAnalyzer(t *testing.T) {
	a := NewLexiconAnalyzer()
	ctx := context.Background()

	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, score float64)
	}{
		{"empty", "", func(t *testing.T, s float64) { assert.Zero(t, s) }},
		{"no opinion words", "Built APIs in Go for payments", func(t *testing.T, s float64) { assert.Zero(t, s) }},
		{"positive", "Delivered excellent results and successfully led a great team", func(t *testing.T, s float64) { assert.Greater(t, s, 0.0) }},
		{"negative", "The project failed and the process was terrible", func(t *testing.T, s float64) { assert.Less(t, s, 0.0) }},
		{"praise", "Praised for exemplary leadership and brilliant, elegant designs", func(t *testing.T, s float64) { assert.Greater(t, s, 0.0) }},
		{"disaster", "Responsible for a disastrous, chaotic and mismanaged rollout", func(t *testing.T, s float64) { assert.Less(t, s, 0.0) }},
		{"negation flips", "The release was not good", func(t *testing.T, s float64) { assert.Less(t, s, 0.0) }},
		{"bounded", "excellent excellent extremely excellent best", func(t *testing.T, s float64) {
			assert.LessOrEqual(t, s, 1.0)
			assert.GreaterOrEqual(t, s, -1.0)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := a.Score(ctx, tt.text)
			require.NoError(t, err)
			tt.check(t, score)
		})
	}
}

func TestIntensifierScales(t *testing.T) {
	a := NewLexiconAnalyzer()
	plain, _ := a.Score(context.Background(), "The design was good")
	strong, _ := a.Score(context.Background(), "The design was very good")
	assert.Greater(t, strong, plain)
}

func TestLexiconLabelsExperience(t *testing.T) {
	a := NewLexiconAnalyzer()
	ctx := context.Background()

	res, err := Analyze(ctx, a, "Praised for exemplary leadership and brilliant, elegant designs")
	require.NoError(t, err)
	assert.Equal(t, Positive, res.Label)

	res, err = Analyze(ctx, a, "Responsible for a disastrous, chaotic and mismanaged rollout")
	require.NoError(t, err)
	assert.Equal(t, Negative, res.Label)
}

type fakeScorer struct {
	score float64
	err   error
	calls int
}

func (f *fakeScorer) ScoreSentiment(_ context.Context, _ *types.SentimentInput) (*types.SentimentScore, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &types.SentimentScore{Score: f.score}, nil
}

func TestAIAnalyzer(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps provider output", func(t *testing.T) {
		res, err := Analyze(ctx, NewAIAnalyzer(&fakeScorer{score: 3}), "great work")
		require.NoError(t, err)
		assert.Equal(t, types.SentimentResult{Label: Positive, Score: 1}, res)
	})

	t.Run("blank text skips provider", func(t *testing.T) {
		f := &fakeScorer{score: -1}
		score, err := NewAIAnalyzer(f).Score(ctx, "   ")
		require.NoError(t, err)
		assert.Zero(t, score)
		assert.Zero(t, f.calls)
	})

	t.Run("provider error", func(t *testing.T) {
		res, err := Analyze(ctx, NewAIAnalyzer(&fakeScorer{err: errors.New("down")}), "text")
		assert.Error(t, err)
		assert.Equal(t, Neutral, res.Label)
	})
}

func BenchmarkLexiconScore(b *testing.B) {
	a := NewLexiconAnalyzer()
	text := "Successfully delivered a highly scalable platform, improved latency, and led an excellent team."
	for b.Loop() {
		_, _ = a.Score(context.Background(), text)
	}
}
