package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumescreen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScreenReport", &ScreenTextFormatter{})
	registry.RegisterFormatter("markdown", "ScreenReport", &ScreenMarkdownFormatter{})
	registry.RegisterFormatter("text", "CoverLetter", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetter", &CoverLetterMarkdownFormatter{})
	registry.RegisterFormatter("text", "TranslationResult", &TranslationTextFormatter{})
	registry.RegisterFormatter("markdown", "TranslationResult", &TranslationMarkdownFormatter{})
	registry.RegisterFormatter("text", "GrammarReport", &GrammarTextFormatter{})
	registry.RegisterFormatter("markdown", "GrammarReport", &GrammarMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter. Pointers to the
// known result types are formatted like their values.
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func deref(data any) any {
	switch v := data.(type) {
	case *types.ScreenReport:
		if v != nil {
			return *v
		}
	case *types.CoverLetter:
		if v != nil {
			return *v
		}
	case *types.TranslationResult:
		if v != nil {
			return *v
		}
	case *types.GrammarReport:
		if v != nil {
			return *v
		}
	}
	return data
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScreenReport:
		return "ScreenReport"
	case types.CoverLetter:
		return "CoverLetter"
	case types.TranslationResult:
		return "TranslationResult"
	case types.GrammarReport:
		return "GrammarReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ScreenTextFormatter handles text formatting for screening reports
type ScreenTextFormatter struct{}

func (stf *ScreenTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ScreenReport)
	if !ok {
		return "", fmt.Errorf("expected ScreenReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED INFORMATION ===\n")
	fmt.Fprintf(&output, "Name:       %s\n", report.Resume.Name)
	fmt.Fprintf(&output, "Contact:    %s\n", report.Resume.Contact)
	fmt.Fprintf(&output, "Email:      %s\n", report.Resume.Email)
	fmt.Fprintf(&output, "Skills:     %s\n", report.Resume.Skills)
	fmt.Fprintf(&output, "Education:  %s\n", report.Resume.Education)
	fmt.Fprintf(&output, "Experience: %s\n\n", report.Resume.Experience)

	output.WriteString("=== KEYWORD MATCH ===\n")
	fmt.Fprintf(&output, "Keywords: %s\n", strings.Join(report.Keywords, ", "))
	fmt.Fprintf(&output, "Matched:  %s\n", joinOrNone(report.Match.MatchedKeywords))
	fmt.Fprintf(&output, "Score:    %.2f/100\n", report.Match.MatchScore)
	fmt.Fprintf(&output, "%s\n\n", report.Verdict.Message)

	output.WriteString("=== ROLES ===\n")
	fmt.Fprintf(&output, "Suitable roles: %s\n", report.SuitableRoles)
	fmt.Fprintf(&output, "Feedback: %s\n\n", report.RoleFeedback)

	output.WriteString("=== SKILL RECOMMENDATIONS ===\n")
	output.WriteString(report.RecommendedSkills)
	output.WriteString("\n\n")

	output.WriteString("=== SENTIMENT ===\n")
	fmt.Fprintf(&output, "%s (%.2f)\n\n", report.Sentiment.Label, report.Sentiment.Score)

	output.WriteString("=== FORMATTING TIPS ===\n")
	if len(report.FormattingTips) == 0 {
		output.WriteString("No formatting issues found.\n")
	}
	for _, tip := range report.FormattingTips {
		fmt.Fprintf(&output, "- %s\n", tip)
	}

	return output.String(), nil
}

func (stf *ScreenTextFormatter) SupportedType() string {
	return "ScreenReport"
}

// ScreenMarkdownFormatter handles markdown formatting for screening reports
type ScreenMarkdownFormatter struct{}

func (smf *ScreenMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ScreenReport)
	if !ok {
		return "", fmt.Errorf("expected ScreenReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Screening Report\n\n")
	if report.Source != "" {
		fmt.Fprintf(&output, "**Source:** %s  \n", report.Source)
	}
	fmt.Fprintf(&output, "**Language:** %s\n\n", report.Language)

	output.WriteString("## Extracted Information\n\n")
	output.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&output, "| Name | %s |\n", escapeCell(report.Resume.Name))
	fmt.Fprintf(&output, "| Contact | %s |\n", escapeCell(report.Resume.Contact))
	fmt.Fprintf(&output, "| Email | %s |\n", escapeCell(report.Resume.Email))
	fmt.Fprintf(&output, "| Skills | %s |\n", escapeCell(report.Resume.Skills))
	fmt.Fprintf(&output, "| Education | %s |\n", escapeCell(report.Resume.Education))
	fmt.Fprintf(&output, "| Experience | %s |\n\n", escapeCell(report.Resume.Experience))

	output.WriteString("## Keyword Match\n\n")
	fmt.Fprintf(&output, "**Score:** %.2f/100\n\n", report.Match.MatchScore)
	fmt.Fprintf(&output, "**Matched:** %s\n\n", joinOrNone(report.Match.MatchedKeywords))
	fmt.Fprintf(&output, "> %s\n\n", report.Verdict.Message)

	output.WriteString("## Suitable Roles\n\n")
	output.WriteString(report.SuitableRoles)
	output.WriteString("\n\n")
	output.WriteString("### Feedback\n")
	output.WriteString(report.RoleFeedback)
	output.WriteString("\n\n")

	output.WriteString("## Skill Recommendations\n\n")
	output.WriteString(report.RecommendedSkills)
	output.WriteString("\n\n")

	output.WriteString("## Sentiment\n\n")
	fmt.Fprintf(&output, "**%s** (%.2f)\n\n", report.Sentiment.Label, report.Sentiment.Score)

	output.WriteString("## Formatting Tips\n\n")
	if len(report.FormattingTips) == 0 {
		output.WriteString("No formatting issues found.\n")
	}
	for _, tip := range report.FormattingTips {
		fmt.Fprintf(&output, "- %s\n", tip)
	}

	return output.String(), nil
}

func (smf *ScreenMarkdownFormatter) SupportedType() string {
	return "ScreenReport"
}

// CoverLetterTextFormatter outputs the letter body as is
type CoverLetterTextFormatter struct{}

func (ctf *CoverLetterTextFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}
	return letter.Content + "\n", nil
}

func (ctf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetter"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover letters
type CoverLetterMarkdownFormatter struct{}

func (cmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Cover Letter: %s\n\n", letter.Role)
	output.WriteString(letter.Content)
	output.WriteString("\n")
	return output.String(), nil
}

func (cmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetter"
}

// TranslationTextFormatter handles text formatting for translations
type TranslationTextFormatter struct{}

func (ttf *TranslationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TranslationResult)
	if !ok {
		return "", fmt.Errorf("expected TranslationResult, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== TRANSLATION (%s) ===\n\n", result.TargetLanguage)
	output.WriteString(result.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (ttf *TranslationTextFormatter) SupportedType() string {
	return "TranslationResult"
}

// TranslationMarkdownFormatter handles markdown formatting for translations
type TranslationMarkdownFormatter struct{}

func (tmf *TranslationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TranslationResult)
	if !ok {
		return "", fmt.Errorf("expected TranslationResult, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Translation (%s)\n\n", result.TargetLanguage)
	output.WriteString(result.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (tmf *TranslationMarkdownFormatter) SupportedType() string {
	return "TranslationResult"
}

// GrammarTextFormatter handles text formatting for grammar reports
type GrammarTextFormatter struct{}

func (gtf *GrammarTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.GrammarReport)
	if !ok {
		return "", fmt.Errorf("expected GrammarReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== GRAMMAR CHECK ===\n")
	fmt.Fprintf(&output, "Language: %s\n", report.Language)
	fmt.Fprintf(&output, "Issues found: %d\n\n", len(report.Issues))

	for i, issue := range report.Issues {
		fmt.Fprintf(&output, "%d. %s\n", i+1, issue.Message)
		if issue.Context != "" {
			fmt.Fprintf(&output, "   Context: %s\n", issue.Context)
		}
		if len(issue.Suggestions) > 0 {
			fmt.Fprintf(&output, "   Suggestions: %s\n", strings.Join(issue.Suggestions, ", "))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (gtf *GrammarTextFormatter) SupportedType() string {
	return "GrammarReport"
}

// GrammarMarkdownFormatter handles markdown formatting for grammar reports
type GrammarMarkdownFormatter struct{}

func (gmf *GrammarMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.GrammarReport)
	if !ok {
		return "", fmt.Errorf("expected GrammarReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Grammar Check\n\n")
	fmt.Fprintf(&output, "**Language:** %s  \n", report.Language)
	fmt.Fprintf(&output, "**Issues found:** %d\n\n", len(report.Issues))

	for i, issue := range report.Issues {
		fmt.Fprintf(&output, "### %d. %s\n\n", i+1, issue.Message)
		if issue.Context != "" {
			fmt.Fprintf(&output, "> %s\n\n", issue.Context)
		}
		for _, suggestion := range issue.Suggestions {
			fmt.Fprintf(&output, "- %s\n", suggestion)
		}
		if len(issue.Suggestions) > 0 {
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (gmf *GrammarMarkdownFormatter) SupportedType() string {
	return "GrammarReport"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", "<br>")
}

// GlobalRegistry is the registry used by the CLI output handler
var GlobalRegistry = NewFormatterRegistry()
