package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resumescreen/internal/cache"
	"resumescreen/internal/errors"

	"golang.org/x/sync/errgroup"
)

// Extraction methods reported in Result.Method
const (
	MethodOCR       = "ocr"
	MethodTextLayer = "text_layer"
	MethodDOCX      = "docx"
	MethodPlain     = "plain"
)

// DefaultDPI is the resolution PDF pages are rendered at before OCR.
const DefaultDPI = 300.0

// DefaultPageSegMode treats each page as a single uniform block of text.
const DefaultPageSegMode = 6

// Options tune an Extractor
type Options struct {
	DPI             float64
	PageSegMode     int
	Workers         int
	PreferTextLayer bool
	CacheTTL        time.Duration
	CacheKeyPrefix  string
}

// Result is the text extracted from one document
type Result struct {
	Text     string
	Format   Format
	Language Language
	Method   string
	Pages    int
	Cached   bool
	Duration time.Duration
}

// Extractor turns documents into plain text. Failures are reported as
// AppErrors of type extraction_failure or no_text_found; the returned text is
// only meaningful when err is nil.
type Extractor struct {
	raster Rasterizer
	ocr    Recognizer
	cache  cache.Store
	opts   Options
	logger *errors.Logger
}

// NewExtractor wires an extractor. A nil cache disables caching.
func NewExtractor(raster Rasterizer, ocr Recognizer, store cache.Store, opts Options, logger *errors.Logger) *Extractor {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.PageSegMode <= 0 {
		opts.PageSegMode = DefaultPageSegMode
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.CacheKeyPrefix == "" {
		opts.CacheKeyPrefix = "ocr:"
	}
	if store == nil {
		store = cache.Nop{}
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Extractor{raster: raster, ocr: ocr, cache: store, opts: opts, logger: logger}
}

// Extract returns the text of doc recognised in lang.
func (e *Extractor) Extract(ctx context.Context, doc Document, lang Language) (*Result, error) {
	start := time.Now()

	format, err := DetectFormat(doc)
	if err != nil {
		return nil, err
	}

	var key string
	if format.needsOCR() {
		key = e.cacheKey(doc.Data, lang)
	}
	if hit, ok := e.cached(ctx, key); ok {
		return &Result{
			Text: hit.Text, Format: format, Language: lang, Method: MethodOCR,
			Pages: hit.Pages, Cached: true, Duration: time.Since(start),
		}, nil
	}

	res, err := e.extract(ctx, doc, format, lang)
	if err != nil {
		e.logger.LogError(err, "Document extraction failed", "file", doc.Name, "format", format)
		return nil, err
	}

	res.Text = strings.TrimSpace(res.Text)
	res.Format = format
	res.Language = lang
	res.Duration = time.Since(start)

	if res.Text == "" {
		return nil, errors.NewNoTextError("no text found in document").
			WithContext("file", doc.Name).
			WithContext("method", res.Method)
	}

	if res.Method == MethodOCR && key != "" {
		e.store(ctx, key, cachedText{Text: res.Text, Pages: res.Pages})
	}

	e.logger.Debug("Document extracted",
		"file", doc.Name,
		"format", format,
		"method", res.Method,
		"pages", res.Pages,
		"duration", res.Duration)

	return res, nil
}

func (e *Extractor) extract(ctx context.Context, doc Document, format Format, lang Language) (*Result, error) {
	switch format {
	case FormatPDF:
		return e.extractPDF(ctx, doc, lang)

	case FormatPNG, FormatJPEG:
		if err := validateImage(doc.Data); err != nil {
			return nil, err.WithContext("file", doc.Name)
		}
		text, err := e.recognize(ctx, doc.Data, lang, 1)
		if err != nil {
			return nil, err
		}
		return &Result{Text: text, Method: MethodOCR, Pages: 1}, nil

	case FormatDOCX:
		text, err := docxText(doc.Data)
		if err != nil {
			return nil, errors.NewExtractionError(errors.ErrCodeExtractionFailed, "failed to read DOCX", err).
				WithContext("file", doc.Name)
		}
		return &Result{Text: text, Method: MethodDOCX, Pages: 1}, nil

	case FormatText:
		return &Result{Text: string(doc.Data), Method: MethodPlain, Pages: 1}, nil
	}

	return nil, errors.NewExtractionError(errors.ErrCodeUnsupportedDocument,
		fmt.Sprintf("unsupported format %s", format), nil)
}

func (e *Extractor) extractPDF(ctx context.Context, doc Document, lang Language) (*Result, error) {
	if e.opts.PreferTextLayer {
		text, pages, err := pdfTextLayer(doc.Data)
		switch {
		case err != nil:
			e.logger.Debug("PDF text layer unreadable, falling back to OCR", "file", doc.Name, "error", err)
		case strings.TrimSpace(text) != "":
			return &Result{Text: text, Method: MethodTextLayer, Pages: pages}, nil
		}
	}

	images, err := e.raster.Rasterize(ctx, doc.Data, e.opts.DPI)
	if err != nil {
		return nil, errors.NewExtractionError(errors.ErrCodeExtractionFailed, "failed to rasterize PDF", err).
			WithContext("file", doc.Name)
	}

	texts := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, img := range images {
		g.Go(func() error {
			text, err := e.recognize(gctx, img, lang, i+1)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Text: strings.Join(texts, "\n"), Method: MethodOCR, Pages: len(images)}, nil
}

func (e *Extractor) recognize(ctx context.Context, img []byte, lang Language, page int) (string, error) {
	text, err := e.ocr.Recognize(ctx, img, lang)
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeOCRFailed, "OCR engine failed", err).
			WithContext("page", page).
			WithContext("language", string(lang))
	}
	return text, nil
}

// cachedText is the value stored per OCR cache key.
type cachedText struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// cacheKey covers every setting that changes OCR output.
func (e *Extractor) cacheKey(data []byte, lang Language) string {
	return cache.Key(e.opts.CacheKeyPrefix, data,
		string(lang),
		"dpi="+strconv.FormatFloat(e.opts.DPI, 'f', -1, 64),
		"psm="+strconv.Itoa(e.opts.PageSegMode))
}

func (e *Extractor) cached(ctx context.Context, key string) (cachedText, bool) {
	if key == "" {
		return cachedText{}, false
	}
	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("OCR cache lookup failed", "error", err)
		return cachedText{}, false
	}
	if !ok {
		return cachedText{}, false
	}
	var hit cachedText
	if err := json.Unmarshal([]byte(raw), &hit); err != nil || hit.Text == "" {
		e.logger.Debug("Ignoring unreadable OCR cache entry", "key", key)
		return cachedText{}, false
	}
	return hit, true
}

func (e *Extractor) store(ctx context.Context, key string, value cachedText) {
	raw, err := json.Marshal(value)
	if err != nil {
		e.logger.Warn("OCR cache encode failed", "error", err)
		return
	}
	if err := e.cache.Set(ctx, key, string(raw), e.opts.CacheTTL); err != nil {
		e.logger.Warn("OCR cache write failed", "error", err)
	}
}
