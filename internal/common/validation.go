package common

import (
	"fmt"
	"slices"

	"resumescreen/internal/errors"
	"resumescreen/internal/extraction"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format '%s'. Supported formats: %v", format, supportedFormats), nil)
}

// ValidateLanguage checks an OCR language flag. Empty is accepted and means
// the configured default.
func ValidateLanguage(code string) error {
	_, err := extraction.ParseLanguage(code, extraction.English)
	return err
}

// LanguageCodes lists the accepted OCR language codes
func LanguageCodes() []string {
	return extraction.LanguageCodes()
}
