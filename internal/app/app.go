package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resumescreen/internal/ai"
	"resumescreen/internal/cache"
	"resumescreen/internal/catalog"
	"resumescreen/internal/config"
	"resumescreen/internal/errors"
	"resumescreen/internal/extraction"
	"resumescreen/internal/observability"
	"resumescreen/internal/screener"
	"resumescreen/internal/sentiment"
	"resumescreen/internal/types"
)

// TextExtractor turns an uploaded document into text.
type TextExtractor interface {
	Extract(ctx context.Context, doc extraction.Document, lang extraction.Language) (*extraction.Result, error)
}

// Translator translates text with an AI provider.
type Translator interface {
	Translate(ctx context.Context, input *types.TranslateInput) (*types.TranslationResult, error)
}

// GrammarChecker reports grammar issues with an AI provider.
type GrammarChecker interface {
	CheckGrammar(ctx context.Context, input *types.GrammarCheckInput) (*types.GrammarReport, error)
}

// App is the facade the CLI and the HTTP server share. It owns the catalog,
// the extractor, the screener and the AI services, and records metrics for
// every operation it runs.
type App struct {
	config    *config.Config
	catalog   *catalog.Store
	cache     cache.Store
	extractor TextExtractor
	screener  *screener.Screener
	metrics   *observability.Metrics
	logger    *errors.Logger

	analyzer   sentiment.Analyzer
	translator Translator
	grammar    GrammarChecker

	mu         sync.Mutex
	aiServices map[string]*ai.Service
}

// Option overrides a component built from configuration.
type Option func(*App)

// WithExtractor replaces the OCR-backed extractor.
func WithExtractor(e TextExtractor) Option {
	return func(a *App) { a.extractor = e }
}

// WithCatalog replaces the catalog store.
func WithCatalog(store *catalog.Store) Option {
	return func(a *App) { a.catalog = store }
}

// WithMetrics records operations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithTranslator replaces the AI translation service.
func WithTranslator(t Translator) Option {
	return func(a *App) { a.translator = t }
}

// WithGrammarChecker replaces the AI grammar service.
func WithGrammarChecker(g GrammarChecker) Option {
	return func(a *App) { a.grammar = g }
}

// WithSentimentAnalyzer replaces the configured sentiment engine.
func WithSentimentAnalyzer(analyzer sentiment.Analyzer) Option {
	return func(a *App) { a.analyzer = analyzer }
}

// New builds an App from configuration.
func New(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	a := &App{
		config:     cfg,
		logger:     logger,
		aiServices: make(map[string]*ai.Service),
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.catalog == nil {
		store, err := openCatalog(cfg.Catalog.File)
		if err != nil {
			return nil, err
		}
		a.catalog = store
	}

	if a.extractor == nil {
		a.cache = openCache(ctx, cfg.Cache, logger)
		a.extractor = extraction.NewExtractor(
			extraction.NewFitzRasterizer(),
			extraction.NewTesseractRecognizer(cfg.OCR.PageSegMode, cfg.OCR.TessdataPrefix),
			a.cache,
			extraction.Options{
				DPI:             cfg.OCR.DPI,
				PageSegMode:     cfg.OCR.PageSegMode,
				Workers:         cfg.OCR.Workers,
				PreferTextLayer: cfg.OCR.PreferTextLayer,
				CacheTTL:        cfg.Cache.TTL,
				CacheKeyPrefix:  cfg.Cache.KeyPrefix,
			},
			logger,
		)
	}

	if a.analyzer == nil {
		analyzer, err := a.sentimentAnalyzer()
		if err != nil {
			return nil, err
		}
		a.analyzer = analyzer
	}
	a.screener = screener.New(a.catalog, a.analyzer, logger)

	return a, nil
}

func openCatalog(path string) (*catalog.Store, error) {
	if path == "" {
		return catalog.NewStore(catalog.Default(), ""), nil
	}
	store, err := catalog.Open(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Failed to load skill catalog %s", path), err)
	}
	return store, nil
}

// openCache connects to Redis when caching is enabled. An unreachable cache
// is logged and replaced by a no-op store.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *errors.Logger) cache.Store {
	if !cfg.Enabled {
		return cache.Nop{}
	}
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := cache.NewRedis(connectCtx, cache.RedisConfig{
		Address:  cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("OCR cache unavailable, continuing without it", "address", cfg.Address, "error", err.Error())
		return cache.Nop{}
	}
	logger.Info("OCR cache enabled", "address", cfg.Address, "ttl", cfg.TTL)
	return store
}

func (a *App) sentimentAnalyzer() (sentiment.Analyzer, error) {
	switch a.config.Screening.SentimentEngine {
	case sentiment.EngineAI:
		svc, err := a.aiService(config.OperationSentiment)
		if err != nil {
			return nil, err
		}
		return sentiment.NewAIAnalyzer(svc), nil
	default:
		return sentiment.NewLexiconAnalyzer(), nil
	}
}

// aiService returns the shared service of an operation, creating it on
// first use so its circuit breaker outlives single requests.
func (a *App) aiService(operation string) (*ai.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if svc, ok := a.aiServices[operation]; ok {
		return svc, nil
	}
	opConfig := a.config.GetOperationConfig(operation)
	svc, err := ai.NewService(&opConfig, operation, a.logger)
	if err != nil {
		return nil, err
	}
	svc.WithMetrics(a.metrics)
	a.aiServices[operation] = svc
	return svc, nil
}

// Catalog returns the catalog store.
func (a *App) Catalog() *catalog.Store {
	return a.catalog
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.config
}

// ScreenInput is one screening request. Document wins over Text when both
// are set.
type ScreenInput struct {
	Document *extraction.Document
	Text     string
	Language string
	// Keywords to match. nil selects the configured defaults.
	Keywords    []string
	Manual      types.ParsedResume
	IncludeText bool
}

// Screen extracts text from the input document and screens it.
func (a *App) Screen(ctx context.Context, in ScreenInput) (*types.ScreenReport, error) {
	text, res, err := a.text(ctx, in.Document, in.Text, in.Language)
	if err != nil {
		return nil, err
	}

	keywords := in.Keywords
	if keywords == nil {
		keywords = screener.ParseKeywords(a.config.Screening.DefaultKeywords)
	}

	req := screener.Request{
		Text:        text,
		Keywords:    keywords,
		Manual:      in.Manual,
		Language:    string(res.Language),
		Method:      res.Method,
		Pages:       res.Pages,
		IncludeText: in.IncludeText,
	}
	if in.Document != nil {
		req.Source = in.Document.Name
	}

	report, err := a.screener.Screen(ctx, req)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordScreening(ctx, int(report.Match.MatchScore), report.Verdict.Level)
	return report, nil
}

// CoverLetterInput is one cover letter request. Document and Text are
// optional when the manual fields are complete.
type CoverLetterInput struct {
	Document *extraction.Document
	Text     string
	Language string
	Manual   types.ParsedResume
	Role     string
}

// CoverLetter resolves the manual fields over those extracted from the
// document and renders the letter. Missing fields give an IncompleteInput
// error. When the manual fields are complete on their own, a document that
// yields no text is logged and ignored.
func (a *App) CoverLetter(ctx context.Context, in CoverLetterInput) (*types.CoverLetter, error) {
	text := in.Text
	if in.Document != nil {
		extracted, _, err := a.text(ctx, in.Document, "", in.Language)
		switch {
		case err == nil:
			text = extracted
		case recoverableExtraction(err) && screener.ValidateCoverLetterInput(in.Manual) == nil:
			a.logger.LogError(err, "Document extraction failed, using manual fields", "file", in.Document.Name)
		default:
			a.metrics.RecordCoverLetter(ctx, false)
			return nil, err
		}
	}

	role := in.Role
	if strings.TrimSpace(role) == "" {
		role = a.config.Screening.DefaultRole
	}

	letter, err := a.screener.CoverLetter(text, in.Manual, role)
	a.metrics.RecordCoverLetter(ctx, err == nil)
	if err != nil {
		return nil, err
	}
	return letter, nil
}

// Translate translates text with the configured AI provider.
func (a *App) Translate(ctx context.Context, input *types.TranslateInput) (*types.TranslationResult, error) {
	translator := a.translator
	if translator == nil {
		svc, err := a.aiService(config.OperationTranslate)
		if err != nil {
			return nil, err
		}
		translator = svc
	}
	return translator.Translate(ctx, input)
}

// CheckGrammar checks text with the configured AI provider.
func (a *App) CheckGrammar(ctx context.Context, input *types.GrammarCheckInput) (*types.GrammarReport, error) {
	checker := a.grammar
	if checker == nil {
		svc, err := a.aiService(config.OperationGrammar)
		if err != nil {
			return nil, err
		}
		checker = svc
	}
	return checker.CheckGrammar(ctx, input)
}

// ExtractText returns the text of doc, recording extraction metrics.
func (a *App) ExtractText(ctx context.Context, doc extraction.Document, language string) (*extraction.Result, error) {
	lang, err := extraction.ParseLanguage(language, a.defaultLanguage())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := a.extractor.Extract(ctx, doc, lang)
	if err != nil {
		a.metrics.RecordExtraction(ctx, "unknown", "", 0, time.Since(start), err)
		return nil, err
	}
	a.metrics.RecordExtraction(ctx, string(res.Format), res.Method, res.Pages, res.Duration, nil)
	return res, nil
}

// text returns the text to analyse: the extracted document when given,
// otherwise the supplied text.
func (a *App) text(ctx context.Context, doc *extraction.Document, text, language string) (string, *extraction.Result, error) {
	if doc != nil {
		res, err := a.ExtractText(ctx, *doc, language)
		if err != nil {
			return "", nil, err
		}
		return res.Text, res, nil
	}

	lang, err := extraction.ParseLanguage(language, a.defaultLanguage())
	if err != nil {
		return "", nil, err
	}
	return text, &extraction.Result{Text: text, Language: lang, Method: extraction.MethodPlain}, nil
}

func recoverableExtraction(err error) bool {
	return errors.IsType(err, errors.ErrorTypeExtraction) || errors.IsType(err, errors.ErrorTypeNoText)
}

func (a *App) defaultLanguage() extraction.Language {
	if a.config.OCR.DefaultLanguage == "" {
		return extraction.English
	}
	return extraction.Language(a.config.OCR.DefaultLanguage)
}

// ModelStatus checks the model of every AI operation that has a key.
func (a *App) ModelStatus(ctx context.Context) map[string]any {
	status := make(map[string]any)
	for _, op := range []string{config.OperationSentiment, config.OperationTranslate, config.OperationGrammar} {
		svc, err := a.aiService(op)
		if err != nil {
			status[op] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("Failed to create %s service: %v", op, err),
			}
			continue
		}
		status[op] = svc.GetModelInfo(ctx)
	}
	return status
}

// AIStats returns circuit breaker statistics of the AI services created so far.
func (a *App) AIStats() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := make(map[string]any, len(a.aiServices))
	for op, svc := range a.aiServices {
		stats[op] = svc.Stats()
	}
	return stats
}

// Close releases the AI services and the cache.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for _, svc := range a.aiServices {
		if err := svc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
