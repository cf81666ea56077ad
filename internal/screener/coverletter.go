package screener

import (
	"fmt"
	"strings"

	"resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// Cover letter download metadata
const (
	CoverLetterFilename    = "cover_letter.txt"
	CoverLetterContentType = "text/plain"
	DefaultRole            = "Software Developer"
)

const coverLetterTemplate = `
Dear Hiring Manager,

I am writing to express my interest in the %[1]s position at your company. As a dedicated and detail-oriented professional with a strong background in %[2]s, I believe I can contribute effectively to your team.

I hold a degree in %[3]s and have gained significant experience in %[4]s. My skills in %[2]s make me a strong candidate for this role, and I am eager to apply my knowledge and expertise to contribute to the success of your organization.

Please find my resume attached for your review. I look forward to discussing how my skills and experience align with the needs of your team.

Thank you for considering my application.

Sincerely,
%[5]s
`

// ValidateCoverLetterInput returns an incomplete input error naming every
// required field that is empty or N/A.
func ValidateCoverLetterInput(resume types.ParsedResume) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"Name", resume.Name},
		{"Skills", resume.Skills},
		{"Education", resume.Education},
		{"Experience", resume.Experience},
	} {
		if isMissing(f.value) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.NewIncompleteInputError(missing)
	}
	return nil
}

// RenderCoverLetter fills the letter template. It performs no validation.
func RenderCoverLetter(resume types.ParsedResume, role string) string {
	return strings.TrimSpace(fmt.Sprintf(coverLetterTemplate,
		role, resume.Skills, resume.Education, resume.Experience, resume.Name))
}

// GenerateCoverLetter validates resume and renders a letter for role. An
// empty role means DefaultRole.
func GenerateCoverLetter(resume types.ParsedResume, role string) (*types.CoverLetter, error) {
	if err := ValidateCoverLetterInput(resume); err != nil {
		return nil, err
	}

	role = strings.TrimSpace(role)
	if role == "" {
		role = DefaultRole
	}

	return &types.CoverLetter{
		Role:        role,
		Content:     RenderCoverLetter(resume, role),
		Filename:    CoverLetterFilename,
		ContentType: CoverLetterContentType,
	}, nil
}

func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == types.NotAvailable
}
