package types

import "time"

// NotAvailable is the sentinel stored in a ParsedResume field whose pattern
// did not match. It is never treated as a real skill, role or education.
const NotAvailable = "N/A"

// ParsedResume is the structured record extracted from resume text
type ParsedResume struct {
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
	Skills     string `json:"skills"` // comma-joined, deduplicated
	Experience string `json:"experience"`
	Education  string `json:"education"`
}

// KeywordMatchResult represents which job keywords appear in the resume
type KeywordMatchResult struct {
	MatchedKeywords []string `json:"matchedKeywords"`
	MatchScore      float64  `json:"matchScore"` // 0-100
}

// Verdict is the banded interpretation of a match score
type Verdict struct {
	Level   string `json:"level"` // great, needs_improvement or weak
	Message string `json:"message"`
}

// SentimentResult is the polarity of the experience section
type SentimentResult struct {
	Label string  `json:"label"` // Positive, Negative or Neutral
	Score float64 `json:"score"` // -1..1
}

// ScreenReport aggregates everything derived from one resume
type ScreenReport struct {
	ID                string             `json:"id"`
	Source            string             `json:"source,omitempty"`
	Language          string             `json:"language"`
	Method            string             `json:"method,omitempty"`
	Pages             int                `json:"pages,omitempty"`
	ExtractedText     string             `json:"extractedText,omitempty"`
	Resume            ParsedResume       `json:"resume"`
	Keywords          []string           `json:"keywords"`
	Match             KeywordMatchResult `json:"match"`
	Verdict           Verdict            `json:"verdict"`
	SuitableRoles     string             `json:"suitableRoles"`
	RoleFeedback      string             `json:"roleFeedback"`
	RecommendedSkills string             `json:"recommendedSkills"`
	Sentiment         SentimentResult    `json:"sentiment"`
	FormattingTips    []string           `json:"formattingTips"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// CoverLetter is a generated letter ready for download
type CoverLetter struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// TranslateInput represents a translation request
type TranslateInput struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

// TranslationResult represents translated text
type TranslationResult struct {
	TargetLanguage string `json:"targetLanguage"`
	Text           string `json:"text"`
}

// GrammarCheckInput represents a grammar check request
type GrammarCheckInput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// GrammarIssue is a single reported problem
type GrammarIssue struct {
	Message     string   `json:"message"`
	Context     string   `json:"context,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// GrammarReport lists grammar issues found in a text
type GrammarReport struct {
	Language string         `json:"language"`
	Issues   []GrammarIssue `json:"issues"`
}

// SentimentInput is sent to AI-backed sentiment scoring
type SentimentInput struct {
	Text string `json:"text"`
}

// SentimentScore is the raw polarity returned by an AI provider
type SentimentScore struct {
	Score float64 `json:"score"`
}
