package screener

import (
	"strings"

	"resumescreen/internal/types"
)

// DefaultKeywords is used when the caller supplies no keyword list.
const DefaultKeywords = "Python, Machine Learning, SQL, AWS"

// Verdict levels
const (
	VerdictGreat            = "great"
	VerdictNeedsImprovement = "needs_improvement"
	VerdictWeak             = "weak"
)

// ParseKeywords splits a comma-separated keyword field, trimming entries
// and discarding empty ones.
func ParseKeywords(raw string) []string {
	keywords := []string{}
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// MatchKeywords reports which keywords occur in text (case-insensitive
// substring) in input order, and the share matched as a 0-100 score.
func MatchKeywords(text string, keywords []string) types.KeywordMatchResult {
	result := types.KeywordMatchResult{MatchedKeywords: []string{}}
	if len(keywords) == 0 {
		return result
	}

	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			result.MatchedKeywords = append(result.MatchedKeywords, kw)
		}
	}

	score := float64(len(result.MatchedKeywords)) / float64(len(keywords)) * 100
	result.MatchScore = clamp(score, 0, 100)
	return result
}

// ScoreVerdict bands a match score.
func ScoreVerdict(score float64) types.Verdict {
	switch {
	case score >= 80:
		return types.Verdict{Level: VerdictGreat, Message: "Great Match! Your resume is well-optimized."}
	case score >= 50:
		return types.Verdict{Level: VerdictNeedsImprovement, Message: "Needs Improvement! Consider adding more relevant keywords."}
	default:
		return types.Verdict{Level: VerdictWeak, Message: "Weak Match! Your resume lacks important keywords."}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
