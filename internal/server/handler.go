package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resumescreen/internal/app"
	appErrors "resumescreen/internal/errors"
	"resumescreen/internal/extraction"
	"resumescreen/internal/screener"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files
const multipartMemory = 10 << 20

func (s *Server) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return s.Observability.Tracer("resumescreen.api").Start(r.Context(), "api."+name)
}

// fail records err on the span and writes the mapped error response
func (s *Server) fail(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", errorType(err)))
	writeAppError(w, err)
}

// screenHandler screens an uploaded resume
func (s *Server) screenHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "screen")
	defer span.End()

	if err := parseMultipart(r); err != nil {
		s.fail(w, span, err)
		return
	}

	doc, err := formDocument(r)
	if err != nil {
		s.fail(w, span, err)
		return
	}
	if doc == nil {
		s.fail(w, span, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"file field is required", nil))
		return
	}

	in := app.ScreenInput{
		Document:    doc,
		Language:    r.FormValue("lang"),
		Manual:      manualFields(r),
		IncludeText: r.FormValue("includeText") == "true",
	}
	if values, ok := r.MultipartForm.Value["keywords"]; ok && len(values) > 0 {
		in.Keywords = screener.ParseKeywords(values[0])
	}

	span.SetAttributes(
		attribute.String("document.name", doc.Name),
		attribute.Int("document.size", len(doc.Data)),
		attribute.String("operation", "screen"),
	)

	report, err := s.App.Screen(ctx, in)
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("match.score", report.Match.MatchScore),
		attribute.String("sentiment", report.Sentiment.Label),
	)
	writeJSON(w, http.StatusOK, report)
}

// coverLetterHandler renders a cover letter as a plain text download
func (s *Server) coverLetterHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "cover_letter")
	defer span.End()

	if err := parseMultipart(r); err != nil {
		s.fail(w, span, err)
		return
	}

	doc, err := formDocument(r)
	if err != nil {
		s.fail(w, span, err)
		return
	}

	letter, err := s.App.CoverLetter(ctx, app.CoverLetterInput{
		Document: doc,
		Language: r.FormValue("lang"),
		Manual:   manualFields(r),
		Role:     r.FormValue("role"),
	})
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(attribute.Bool("success", true), attribute.String("role", letter.Role))

	w.Header().Set("Content-Type", letter.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", letter.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, letter.Content); err != nil {
		s.Logger.LogError(err, "Failed to write cover letter")
	}
}

// translateHandler translates JSON text into the requested language
func (s *Server) translateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "translate")
	defer span.End()

	var req TranslateRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, span, err)
		return
	}
	span.SetAttributes(
		attribute.Int("request.text_length", len(req.Text)),
		attribute.String("request.target_language", req.TargetLanguage),
	)

	result, err := s.App.Translate(ctx, &types.TranslateInput{Text: req.Text, TargetLanguage: req.TargetLanguage})
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(attribute.Bool("success", true))
	writeJSON(w, http.StatusOK, result)
}

// grammarHandler reports grammar issues in JSON text
func (s *Server) grammarHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "grammar")
	defer span.End()

	var req GrammarRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.fail(w, span, err)
		return
	}
	span.SetAttributes(attribute.Int("request.text_length", len(req.Text)))

	report, err := s.App.CheckGrammar(ctx, &types.GrammarCheckInput{Text: req.Text, Language: req.Language})
	if err != nil {
		s.fail(w, span, err)
		return
	}

	span.SetAttributes(attribute.Bool("success", true), attribute.Int("grammar.issues", len(report.Issues)))
	writeJSON(w, http.StatusOK, report)
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"request must be multipart/form-data", err)
	}
	return nil
}

// formDocument reads the optional "file" part. A missing part gives nil.
func formDocument(r *http.Request) (*extraction.Document, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "invalid file upload", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.NewIOError(appErrors.ErrCodeFileNotReadable, "failed to read upload", err)
	}
	return &extraction.Document{Name: header.Filename, Data: data}, nil
}

func manualFields(r *http.Request) types.ParsedResume {
	return types.ParsedResume{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Skills:     strings.TrimSpace(r.FormValue("skills")),
		Education:  strings.TrimSpace(r.FormValue("education")),
		Experience: strings.TrimSpace(r.FormValue("experience")),
	}
}
