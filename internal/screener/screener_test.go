package screener

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resumescreen/internal/catalog"
	apperrors "resumescreen/internal/errors"
	"resumescreen/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		keywords    []string
		wantMatched []string
		wantScore   float64
	}{
		{"empty list", "Python", []string{}, []string{}, 0},
		{"nil list", "Python", nil, []string{}, 0},
		{"all match", "python and SQL", []string{"Python", "sql"}, []string{"Python", "sql"}, 100},
		{"partial keeps input order", "aws python", []string{"SQL", "Python", "AWS", "Go lang"}, []string{"Python", "AWS"}, 50},
		{"substring semantics", "javascript", []string{"Java"}, []string{"Java"}, 100},
		{"no text", "", []string{"Python"}, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchKeywords(tt.text, tt.keywords)
			assert.Equal(t, tt.wantMatched, got.MatchedKeywords)
			assert.InDelta(t, tt.wantScore, got.MatchScore, 1e-9)
			assert.GreaterOrEqual(t, got.MatchScore, 0.0)
			assert.LessOrEqual(t, got.MatchScore, 100.0)
		})
	}
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"Python", "Machine Learning", "SQL", "AWS"}, ParseKeywords(DefaultKeywords))
	assert.Equal(t, []string{"Go"}, ParseKeywords(" , Go ,, "))
	assert.Empty(t, ParseKeywords(""))
}

func TestScoreVerdict(t *testing.T) {
	assert.Equal(t, VerdictGreat, ScoreVerdict(80).Level)
	assert.Equal(t, VerdictNeedsImprovement, ScoreVerdict(79.9).Level)
	assert.Equal(t, VerdictNeedsImprovement, ScoreVerdict(50).Level)
	assert.Equal(t, VerdictWeak, ScoreVerdict(49.99).Level)
	assert.Equal(t, VerdictWeak, ScoreVerdict(0).Level)
}

func TestRecommendRoles(t *testing.T) {
	cat := catalog.Default()

	got := RecommendRoles("Python, SQL", cat)
	for _, role := range []string{"Software Developer", "Data Scientist", "Database Administrator", "Data Analyst"} {
		assert.Contains(t, got, role)
	}
	assert.Equal(t, "Data Analyst, Data Scientist, Database Administrator, Software Developer", got)

	assert.Equal(t, "Data Scientist, ML Engineer, Software Developer",
		RecommendRoles("Python, Machine Learning", cat), "duplicates collapse")
	assert.Equal(t, types.NotAvailable, RecommendRoles(types.NotAvailable, cat))
	assert.Equal(t, types.NotAvailable, RecommendRoles("C++", cat))
	assert.Equal(t, types.NotAvailable, RecommendRoles("", cat))
}

func TestRoleFeedbackAndRecommendations(t *testing.T) {
	cat := catalog.Default()

	assert.Equal(t, "Mention API development experience, databases, and server-side optimization.",
		RoleFeedback("Backend Developer", cat))
	assert.Equal(t, cat.DefaultFeedback, RoleFeedback("Data Scientist, Software Developer", cat))
	assert.Equal(t, "Excel, Data Analysis, Marketing Analytics, Project Management",
		RecommendSkills("MBA, business administration", cat))
	assert.Equal(t, cat.DefaultRecommendation, RecommendSkills(types.NotAvailable, cat))
}

func TestFormattingSuggestions(t *testing.T) {
	short := strings.TrimSpace(strings.Repeat("word ", 49)) + " end."
	assert.Equal(t, []string{TipMoreDetail, TipMoreSentences}, FormattingSuggestions(short))

	sentence := strings.TrimSpace(strings.Repeat("word ", 29)) + " done. "
	long := strings.Repeat(sentence, 10)
	require.Len(t, strings.Fields(long), 300)
	assert.Empty(t, FormattingSuggestions(long))
}

func TestGenerateCoverLetter(t *testing.T) {
	resume := types.ParsedResume{
		Name:       "Jane Doe",
		Skills:     "Python, SQL",
		Education:  "Computer Science",
		Experience: "3 years backend development",
	}

	letter, err := GenerateCoverLetter(resume, "Data Scientist")
	require.NoError(t, err)

	for _, want := range []string{"Jane Doe", "Python, SQL", "Computer Science", "3 years backend development", "Data Scientist"} {
		assert.Contains(t, letter.Content, want)
	}
	assert.True(t, strings.HasPrefix(letter.Content, "Dear Hiring Manager,"))
	assert.True(t, strings.HasSuffix(letter.Content, "Sincerely,\nJane Doe"))
	assert.Equal(t, 2, strings.Count(letter.Content, "Python, SQL"))
	assert.Equal(t, CoverLetterFilename, letter.Filename)
	assert.Equal(t, CoverLetterContentType, letter.ContentType)
}

func TestGenerateCoverLetterDefaultsRole(t *testing.T) {
	letter, err := GenerateCoverLetter(types.ParsedResume{
		Name: "A B", Skills: "Go", Education: "BSc", Experience: "APIs",
	}, "  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, letter.Role)
	assert.Contains(t, letter.Content, "the Software Developer position")
}

func TestGenerateCoverLetterIncomplete(t *testing.T) {
	_, err := GenerateCoverLetter(types.ParsedResume{
		Name:       "Jane Doe",
		Skills:     types.NotAvailable,
		Education:  "  ",
		Experience: "3 years",
	}, "Data Scientist")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeIncompleteInput))
	assert.Equal(t, []string{"Skills", "Education"}, apperrors.MissingFields(err))
}

func TestResolve(t *testing.T) {
	extracted := types.ParsedResume{
		Name: "John Smith", Contact: "555-123-4567", Email: "j@x.io",
		Skills: "Python", Experience: "APIs", Education: types.NotAvailable,
	}
	manual := types.ParsedResume{Name: "  ", Skills: " Go, SQL ", Education: "MSc"}

	got := Resolve(manual, extracted)
	assert.Equal(t, types.ParsedResume{
		Name: "John Smith", Contact: "555-123-4567", Email: "j@x.io",
		Skills: "Go, SQL", Experience: "APIs", Education: "MSc",
	}, got)
}

type stubAnalyzer struct {
	score float64
	err   error
	seen  string
}

func (s *stubAnalyzer) Name() string { return "stub" }

func (s *stubAnalyzer) Score(_ context.Context, text string) (float64, error) {
	s.seen = text
	return s.score, s.err
}

func TestScreen(t *testing.T) {
	an := &stubAnalyzer{score: 0.4}
	s := New(nil, an, nil)

	text := johnSmith + "\nSkills: Python, SQL"
	report, err := s.Screen(context.Background(), Request{
		Text:        text,
		Keywords:    []string{"Python", "Kubernetes"},
		Manual:      types.ParsedResume{Name: "Johnny Smith"},
		Language:    "eng",
		IncludeText: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "Johnny Smith", report.Resume.Name)
	assert.Equal(t, "Python, SQL", report.Resume.Skills)
	assert.Equal(t, []string{"Python"}, report.Match.MatchedKeywords)
	assert.InDelta(t, 50, report.Match.MatchScore, 1e-9)
	assert.Equal(t, VerdictNeedsImprovement, report.Verdict.Level)
	assert.Equal(t, "Data Analyst, Data Scientist, Database Administrator, Software Developer", report.SuitableRoles)
	assert.Equal(t, s.Catalog().DefaultFeedback, report.RoleFeedback)
	assert.Equal(t, "Python, Java, Machine Learning, Cloud Computing, Data Structures & Algorithms", report.RecommendedSkills)
	assert.Equal(t, types.SentimentResult{Label: "Positive", Score: 0.4}, report.Sentiment)
	assert.Equal(t, "Built scalable APIs", an.seen)
	assert.Equal(t, text, report.ExtractedText)
	assert.Contains(t, report.FormattingTips, TipMoreDetail)
}

func TestScreenDefaultsAndFailures(t *testing.T) {
	t.Run("default keywords", func(t *testing.T) {
		report, err := New(nil, nil, nil).Screen(context.Background(), Request{Text: "python sql aws machine learning"})
		require.NoError(t, err)
		assert.Equal(t, ParseKeywords(DefaultKeywords), report.Keywords)
		assert.InDelta(t, 100, report.Match.MatchScore, 1e-9)
		assert.Empty(t, report.ExtractedText)
	})

	t.Run("blank text", func(t *testing.T) {
		_, err := New(nil, nil, nil).Screen(context.Background(), Request{Text: " \n "})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNoText))
	})

	t.Run("sentiment failure degrades", func(t *testing.T) {
		s := New(nil, &stubAnalyzer{err: errors.New("quota")}, nil)
		report, err := s.Screen(context.Background(), Request{Text: johnSmith})
		require.NoError(t, err)
		assert.Equal(t, "Neutral", report.Sentiment.Label)
	})

	t.Run("no experience section is neutral", func(t *testing.T) {
		an := &stubAnalyzer{score: 0}
		report, err := New(nil, an, nil).Screen(context.Background(), Request{Text: "Jane Doe"})
		require.NoError(t, err)
		assert.Equal(t, "", an.seen)
		assert.Equal(t, "Neutral", report.Sentiment.Label)
	})
}

func TestScreenerCoverLetter(t *testing.T) {
	s := New(nil, nil, nil)

	letter, err := s.CoverLetter(johnSmith, types.ParsedResume{Skills: "Go"}, "Backend Developer")
	require.NoError(t, err)
	assert.Contains(t, letter.Content, "John Smith")
	assert.Contains(t, letter.Content, "BSc Computer Science")

	_, err = s.CoverLetter("", types.ParsedResume{Name: "Jane Doe"}, "")
	assert.ElementsMatch(t, []string{"Skills", "Education", "Experience"}, apperrors.MissingFields(err))
}

func BenchmarkParseResume(b *testing.B) {
	cat := catalog.Default()
	text := strings.Repeat(johnSmith+"\nSkills: Python, SQL, AWS, Django\n", 20)
	for b.Loop() {
		ParseResume(text, cat)
	}
}
