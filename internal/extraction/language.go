package extraction

import (
	"strings"

	"resumescreen/internal/errors"
)

// Language is a tesseract language code
type Language string

// Supported OCR languages
const (
	English Language = "eng"
	French  Language = "fra"
	Spanish Language = "spa"
	German  Language = "deu"
	Italian Language = "ita"
)

// Languages lists the supported languages in display order.
var Languages = []Language{English, French, Spanish, German, Italian}

// ParseLanguage validates a language code. Empty input selects def.
func ParseLanguage(code string, def Language) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return def, nil
	}
	for _, l := range Languages {
		if string(l) == code {
			return l, nil
		}
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidLanguage,
		"unsupported OCR language "+code, nil).
		WithContext("supported", LanguageCodes())
}

// LanguageCodes returns the supported codes as strings.
func LanguageCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = string(l)
	}
	return codes
}
