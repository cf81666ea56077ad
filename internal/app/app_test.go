package app

import (
	"context"
	"testing"

	"resumescreen/internal/catalog"
	"resumescreen/internal/config"
	"resumescreen/internal/errors"
	"resumescreen/internal/extraction"
	"resumescreen/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumeText = "Jane Doe\njane@example.com\n555-987-6543\n" +
	"Experience:\nLed a successful migration of Python services to AWS\n" +
	"Education:\nBSc Computer Science\nSkills: Python, SQL"

type fakeExtractor struct {
	result   *extraction.Result
	err      error
	lastLang extraction.Language
	calls    int
}

func (f *fakeExtractor) Extract(_ context.Context, _ extraction.Document, lang extraction.Language) (*extraction.Result, error) {
	f.calls++
	f.lastLang = lang
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.Language = lang
	return &res, nil
}

type fakeTranslator struct{ in *types.TranslateInput }

func (f *fakeTranslator) Translate(_ context.Context, in *types.TranslateInput) (*types.TranslationResult, error) {
	f.in = in
	return &types.TranslationResult{TargetLanguage: in.TargetLanguage, Text: "traduit"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OCR:       config.OCRConfig{DefaultLanguage: "eng"},
		Screening: config.ScreeningConfig{DefaultKeywords: "Python, AWS", DefaultRole: "Software Developer", SentimentEngine: "lexicon"},
	}
}

func newTestApp(t *testing.T, ext *fakeExtractor, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithExtractor(ext), WithCatalog(catalog.NewStore(catalog.Default(), ""))}, opts...)
	a, err := New(context.Background(), testConfig(), errors.NewNopLogger(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestScreenDocument(t *testing.T) {
	ext := &fakeExtractor{result: &extraction.Result{Text: resumeText, Format: extraction.FormatPDF, Method: extraction.MethodOCR, Pages: 1}}
	a := newTestApp(t, ext)

	report, err := a.Screen(context.Background(), ScreenInput{
		Document: &extraction.Document{Name: "jane.pdf", Data: []byte("%PDF")},
		Language: "fra",
	})
	require.NoError(t, err)

	assert.Equal(t, extraction.French, ext.lastLang)
	assert.Equal(t, "jane.pdf", report.Source)
	assert.Equal(t, "fra", report.Language)
	assert.Equal(t, "Jane Doe", report.Resume.Name)
	assert.Equal(t, []string{"Python", "AWS"}, report.Keywords)
	assert.InDelta(t, 100, report.Match.MatchScore, 1e-9)
	assert.Equal(t, "Positive", report.Sentiment.Label)
}

func TestScreenTextSkipsExtraction(t *testing.T) {
	ext := &fakeExtractor{}
	a := newTestApp(t, ext)

	report, err := a.Screen(context.Background(), ScreenInput{Text: resumeText, Keywords: []string{}})
	require.NoError(t, err)
	assert.Zero(t, ext.calls)
	assert.Zero(t, report.Match.MatchScore)
	assert.Equal(t, extraction.MethodPlain, report.Method)
}

func TestScreenRejectsUnknownLanguage(t *testing.T) {
	a := newTestApp(t, &fakeExtractor{})

	_, err := a.Screen(context.Background(), ScreenInput{Text: resumeText, Language: "por"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestScreenPropagatesExtractionKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorType
	}{
		{"extraction failure", errors.NewExtractionError(errors.ErrCodeOCRFailed, "tesseract crashed", nil), errors.ErrorTypeExtraction},
		{"no text", errors.NewNoTextError("blank scan"), errors.ErrorTypeNoText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, &fakeExtractor{err: tt.err})
			_, err := a.Screen(context.Background(), ScreenInput{Document: &extraction.Document{Name: "x.png", Data: []byte{1}}})
			assert.True(t, errors.IsType(err, tt.want))
		})
	}
}

func TestCoverLetter(t *testing.T) {
	a := newTestApp(t, &fakeExtractor{})

	letter, err := a.CoverLetter(context.Background(), CoverLetterInput{
		Manual: types.ParsedResume{
			Name:       "Jane Doe",
			Skills:     "Python, SQL",
			Education:  "Computer Science",
			Experience: "3 years backend development",
		},
		Role: "Data Scientist",
	})
	require.NoError(t, err)
	for _, want := range []string{"Jane Doe", "Python, SQL", "Computer Science", "3 years backend development", "Data Scientist"} {
		assert.Contains(t, letter.Content, want)
	}
	assert.Equal(t, "cover_letter.txt", letter.Filename)
}

func TestCoverLetterDefaultsRoleAndMergesDocument(t *testing.T) {
	ext := &fakeExtractor{result: &extraction.Result{Text: resumeText, Method: extraction.MethodOCR}}
	a := newTestApp(t, ext)

	letter, err := a.CoverLetter(context.Background(), CoverLetterInput{
		Document: &extraction.Document{Name: "jane.png", Data: []byte{1}},
		Manual:   types.ParsedResume{Name: "J. Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Software Developer", letter.Role)
	assert.Contains(t, letter.Content, "J. Doe")
	assert.Contains(t, letter.Content, "BSc Computer Science")
}

func TestCoverLetterIncompleteInput(t *testing.T) {
	a := newTestApp(t, &fakeExtractor{})

	_, err := a.CoverLetter(context.Background(), CoverLetterInput{Manual: types.ParsedResume{Name: "Jane Doe"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIncompleteInput))
	assert.ElementsMatch(t, []string{"Skills", "Education", "Experience"}, errors.MissingFields(err))
}

func TestCoverLetterDocumentFailure(t *testing.T) {
	complete := types.ParsedResume{
		Name:       "Jane Doe",
		Skills:     "Python, SQL",
		Education:  "Computer Science",
		Experience: "3 years backend development",
	}
	doc := &extraction.Document{Name: "scan.png", Data: []byte{1}}

	tests := []struct {
		name    string
		err     error
		manual  types.ParsedResume
		wantErr errors.ErrorType
	}{
		{"blank scan with complete fields", errors.NewNoTextError("blank scan"), complete, ""},
		{"broken scan with complete fields", errors.NewExtractionError(errors.ErrCodeOCRFailed, "tesseract crashed", nil), complete, ""},
		{"blank scan with partial fields", errors.NewNoTextError("blank scan"), types.ParsedResume{Name: "Jane Doe"}, errors.ErrorTypeNoText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, &fakeExtractor{err: tt.err})

			letter, err := a.CoverLetter(context.Background(), CoverLetterInput{Document: doc, Manual: tt.manual})
			if tt.wantErr != "" {
				assert.True(t, errors.IsType(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, letter.Content, "Jane Doe")
			assert.Contains(t, letter.Content, "3 years backend development")
		})
	}

	t.Run("unknown language still fails", func(t *testing.T) {
		a := newTestApp(t, &fakeExtractor{err: errors.NewNoTextError("blank scan")})
		_, err := a.CoverLetter(context.Background(), CoverLetterInput{Document: doc, Manual: complete, Language: "por"})
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})
}

func TestTranslateUsesInjectedService(t *testing.T) {
	tr := &fakeTranslator{}
	a := newTestApp(t, &fakeExtractor{}, WithTranslator(tr))

	out, err := a.Translate(context.Background(), &types.TranslateInput{Text: "Hello", TargetLanguage: "fra"})
	require.NoError(t, err)
	assert.Equal(t, "traduit", out.Text)
	assert.Equal(t, "Hello", tr.in.Text)
}

func TestAIOperationsWithoutKey(t *testing.T) {
	a := newTestApp(t, &fakeExtractor{})

	_, err := a.CheckGrammar(context.Background(), &types.GrammarCheckInput{Text: "He go."})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	status := a.ModelStatus(context.Background())
	grammar, ok := status[config.OperationGrammar].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, grammar["available"])
	assert.Empty(t, a.AIStats())
}

func TestNewFailsOnAISentimentWithoutKey(t *testing.T) {
	cfg := testConfig()
	cfg.Screening.SentimentEngine = "ai"

	_, err := New(context.Background(), cfg, errors.NewNopLogger(), WithExtractor(&fakeExtractor{}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
