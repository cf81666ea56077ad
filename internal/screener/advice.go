package screener

import (
	"regexp"
	"strings"

	"resumescreen/internal/catalog"
)

// Formatting advisories
const (
	TipMoreDetail    = "Consider adding more details to your resume to provide a comprehensive overview."
	TipMoreSentences = "Consider adding more full sentences to describe your experiences and skills."

	minWordCount     = 200
	minSentenceCount = 5
)

var sentenceEnd = regexp.MustCompile(`\.\s`)

// RoleFeedback looks up advice for role by exact name. Role strings that are
// unions of several roles fall through to the default advice.
func RoleFeedback(role string, cat *catalog.Catalog) string {
	return cat.Feedback(role)
}

// RecommendSkills suggests skills to learn based on the education field.
func RecommendSkills(education string, cat *catalog.Catalog) string {
	return cat.Recommendation(education)
}

// FormattingSuggestions returns advisories for short or fragmentary text.
// The result is empty, never nil, when the text needs no advice.
func FormattingSuggestions(text string) []string {
	tips := []string{}
	if len(strings.Fields(text)) < minWordCount {
		tips = append(tips, TipMoreDetail)
	}
	if len(sentenceEnd.FindAllStringIndex(text, -1)) < minSentenceCount {
		tips = append(tips, TipMoreSentences)
	}
	return tips
}
