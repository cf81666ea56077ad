package screener

import (
	"regexp"
	"strings"

	"resumescreen/internal/catalog"
	"resumescreen/internal/types"
)

var (
	namePattern       = regexp.MustCompile(`^(\p{Lu}[\p{L}\p{M}'’-]*[ \t]+\p{Lu}[\p{L}\p{M}'’-]*)`)
	phonePattern      = regexp.MustCompile(`(?:\+\d{1,2}\s?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9+_.-]+@[a-zA-Z0-9.-]+`)
	experiencePattern = regexp.MustCompile(`(?is)experience[:\n](.*?)(?:education|skills|$)`)
	educationPattern  = regexp.MustCompile(`(?is)education[:\n](.*?)(?:experience|skills|$)`)
)

// ParseResume extracts the structured fields from resume text. It never
// fails: each field that cannot be found is set to types.NotAvailable.
func ParseResume(text string, cat *catalog.Catalog) types.ParsedResume {
	return types.ParsedResume{
		Name:       extractName(text),
		Contact:    firstMatch(phonePattern, text),
		Email:      firstMatch(emailPattern, text),
		Skills:     extractSkills(text, cat),
		Experience: orNotAvailable(ExperienceSection(text)),
		Education:  orNotAvailable(EducationSection(text)),
	}
}

// ExperienceSection returns the trimmed text following an "experience"
// header up to the next education or skills header. ok is false when there
// is no such header.
func ExperienceSection(text string) (section string, ok bool) {
	return captureSection(experiencePattern, text)
}

// EducationSection is the counterpart of ExperienceSection for "education".
func EducationSection(text string) (section string, ok bool) {
	return captureSection(educationPattern, text)
}

func captureSection(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// extractName only looks at the first line. Leading blank space left by OCR
// is ignored.
func extractName(text string) string {
	m := namePattern.FindStringSubmatch(strings.TrimLeft(text, " \t\r\n"))
	if m == nil {
		return types.NotAvailable
	}
	return m[1]
}

func extractSkills(text string, cat *catalog.Catalog) string {
	skills := cat.MatchSkills(text)
	if len(skills) == 0 {
		return types.NotAvailable
	}
	return strings.Join(skills, ", ")
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return types.NotAvailable
}

// orNotAvailable also maps a header with nothing after it to the sentinel,
// so an empty section never reads as a real value.
func orNotAvailable(s string, ok bool) string {
	if !ok || s == "" {
		return types.NotAvailable
	}
	return s
}

// SplitSkills turns a comma-joined skills string back into tokens, dropping
// empty tokens and the N/A sentinel.
func SplitSkills(skills string) []string {
	var out []string
	for _, tok := range strings.Split(skills, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == types.NotAvailable {
			continue
		}
		out = append(out, tok)
	}
	return out
}
