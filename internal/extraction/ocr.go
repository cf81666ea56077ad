package extraction

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer turns an encoded image into text.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte, lang Language) (string, error)
}

// TesseractRecognizer runs tesseract through gosseract. A fresh client is
// created per image since clients are not safe for concurrent use.
type TesseractRecognizer struct {
	pageSegMode    gosseract.PageSegMode
	tessdataPrefix string
}

// NewTesseractRecognizer creates a recognizer using the given page
// segmentation mode (6 treats the page as a single uniform block).
func NewTesseractRecognizer(pageSegMode int, tessdataPrefix string) *TesseractRecognizer {
	if pageSegMode <= 0 {
		pageSegMode = int(gosseract.PSM_SINGLE_BLOCK)
	}
	return &TesseractRecognizer{
		pageSegMode:    gosseract.PageSegMode(pageSegMode),
		tessdataPrefix: tessdataPrefix,
	}
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, img []byte, lang Language) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.tessdataPrefix != "" {
		client.TessdataPrefix = r.tessdataPrefix
	}
	if err := client.SetLanguage(string(lang)); err != nil {
		return "", fmt.Errorf("failed to set OCR language %s: %w", lang, err)
	}
	if err := client.SetPageSegMode(r.pageSegMode); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return text, nil
}
