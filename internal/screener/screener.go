package screener

import (
	"context"
	"strings"
	"time"

	"resumescreen/internal/catalog"
	"resumescreen/internal/errors"
	"resumescreen/internal/sentiment"
	"resumescreen/internal/types"

	"github.com/google/uuid"
)

// Request describes one screening run over already extracted text.
type Request struct {
	Text string
	// Keywords to match. nil selects DefaultKeywords; an empty non-nil
	// slice is honoured and scores 0.
	Keywords []string
	Manual   types.ParsedResume

	Source   string
	Language string
	Method   string
	Pages    int

	IncludeText bool
}

// Screener derives a ScreenReport from resume text using the active catalog
// and a sentiment analyzer.
type Screener struct {
	catalog  *catalog.Store
	analyzer sentiment.Analyzer
	logger   *errors.Logger
	now      func() time.Time
}

// New creates a Screener. A nil analyzer selects the lexicon engine.
func New(store *catalog.Store, analyzer sentiment.Analyzer, logger *errors.Logger) *Screener {
	if store == nil {
		store = catalog.NewStore(catalog.Default(), "")
	}
	if analyzer == nil {
		analyzer = sentiment.NewLexiconAnalyzer()
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Screener{
		catalog:  store,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Catalog returns the catalog snapshot currently in use.
func (s *Screener) Catalog() *catalog.Catalog {
	return s.catalog.Current()
}

// Screen runs every analysis over req.Text. Blank text is a NoTextFound error.
// A failing sentiment engine degrades to a neutral result instead of failing
// the report.
func (s *Screener) Screen(ctx context.Context, req Request) (*types.ScreenReport, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.NewNoTextError("no text to screen")
	}

	cat := s.catalog.Current()
	resume := Resolve(req.Manual, ParseResume(req.Text, cat))

	keywords := req.Keywords
	if keywords == nil {
		keywords = ParseKeywords(DefaultKeywords)
	}
	match := MatchKeywords(req.Text, keywords)
	roles := RecommendRoles(resume.Skills, cat)

	sent, err := s.AnalyzeSentiment(ctx, req.Text)
	if err != nil {
		s.logger.LogError(err, "Sentiment analysis failed, reporting neutral", "engine", s.analyzer.Name())
	}

	report := &types.ScreenReport{
		ID:                uuid.NewString(),
		Source:            req.Source,
		Language:          req.Language,
		Method:            req.Method,
		Pages:             req.Pages,
		Resume:            resume,
		Keywords:          keywords,
		Match:             match,
		Verdict:           ScoreVerdict(match.MatchScore),
		SuitableRoles:     roles,
		RoleFeedback:      RoleFeedback(roles, cat),
		RecommendedSkills: RecommendSkills(resume.Education, cat),
		Sentiment:         sent,
		FormattingTips:    FormattingSuggestions(req.Text),
		GeneratedAt:       s.now().UTC(),
	}
	if req.IncludeText {
		report.ExtractedText = req.Text
	}

	s.logger.Debug("Resume screened",
		"report_id", report.ID,
		"match_score", match.MatchScore,
		"roles", roles,
		"sentiment", sent.Label)

	return report, nil
}

// AnalyzeSentiment scores the experience section of text. Text without an
// experience header is scored as empty, which is neutral.
func (s *Screener) AnalyzeSentiment(ctx context.Context, text string) (types.SentimentResult, error) {
	section, _ := ExperienceSection(text)
	return sentiment.Analyze(ctx, s.analyzer, section)
}

// CoverLetter resolves manual over fields extracted from text (which may be
// empty) and renders a letter for role.
func (s *Screener) CoverLetter(text string, manual types.ParsedResume, role string) (*types.CoverLetter, error) {
	extracted := types.ParsedResume{}
	if strings.TrimSpace(text) != "" {
		extracted = ParseResume(text, s.catalog.Current())
	}
	return GenerateCoverLetter(Resolve(manual, extracted), role)
}
