package extraction

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	"resumescreen/internal/errors"
)

// Format is a recognised document format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// MIME types accepted for upload
const (
	MIMEPDF  = "application/pdf"
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
)

// Document is an uploaded file held in memory
type Document struct {
	Name string
	Data []byte
}

// DetectFormat sniffs the payload. The file name only disambiguates zip
// containers (DOCX) and plain text.
func DetectFormat(doc Document) (Format, error) {
	if len(doc.Data) == 0 {
		return "", errors.NewExtractionError(errors.ErrCodeUnsupportedDocument, "document is empty", nil).
			WithContext("file", doc.Name)
	}

	ext := strings.ToLower(filepath.Ext(doc.Name))
	sniffed := http.DetectContentType(doc.Data)
	switch {
	case sniffed == MIMEPDF:
		return FormatPDF, nil
	case sniffed == MIMEPNG:
		return FormatPNG, nil
	case sniffed == MIMEJPEG:
		return FormatJPEG, nil
	case sniffed == "application/zip" && ext == ".docx":
		return FormatDOCX, nil
	case strings.HasPrefix(sniffed, MIMEText) && (ext == ".txt" || ext == ".md" || ext == ""):
		return FormatText, nil
	}

	return "", errors.NewExtractionError(errors.ErrCodeUnsupportedDocument,
		"unsupported document type "+sniffed, nil).
		WithContext("file", doc.Name)
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return MIMEPDF
	case FormatPNG:
		return MIMEPNG
	case FormatJPEG:
		return MIMEJPEG
	case FormatDOCX:
		return MIMEDOCX
	default:
		return MIMEText
	}
}

func (f Format) needsOCR() bool {
	return f == FormatPDF || f == FormatPNG || f == FormatJPEG
}

// validateImage rejects truncated or mislabelled image payloads before they
// reach the OCR engine.
func validateImage(data []byte) *errors.AppError {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return errors.NewExtractionError(errors.ErrCodeExtractionFailed, "image is unreadable", err)
	}
	return nil
}
