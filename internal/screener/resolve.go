package screener

import (
	"strings"

	"resumescreen/internal/types"
)

// Resolve merges manually entered fields over extracted ones. A manual value
// wins when it is non-empty after trimming; otherwise the extracted value is
// kept as is.
func Resolve(manual, extracted types.ParsedResume) types.ParsedResume {
	return types.ParsedResume{
		Name:       pick(manual.Name, extracted.Name),
		Contact:    pick(manual.Contact, extracted.Contact),
		Email:      pick(manual.Email, extracted.Email),
		Skills:     pick(manual.Skills, extracted.Skills),
		Experience: pick(manual.Experience, extracted.Experience),
		Education:  pick(manual.Education, extracted.Education),
	}
}

func pick(manual, extracted string) string {
	if m := strings.TrimSpace(manual); m != "" {
		return m
	}
	return extracted
}
