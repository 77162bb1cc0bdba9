// Package ocr turns a statement screenshot into plain text.
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocjay1/statement-ocr/internal/config"
)

// ErrNoProvider is returned by New for an unrecognized provider name.
var ErrNoProvider = errors.New("unknown OCR provider")

// Extractor returns the text found in an image. An image without text
// yields an empty string and no error.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte, filename string) (string, error)
	Name() string
}

// New builds the extractor selected by cfg.Provider.
func New(ctx context.Context, cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case config.ProviderOCRSpace:
		return NewOCRSpace(cfg.OCRSpaceURL, cfg.OCRSpaceKey, cfg.Language, cfg.Timeout), nil
	case config.ProviderTesseract:
		return NewTesseract(cfg.TesseractPath, tesseractLanguage(cfg.Language), cfg.Timeout), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoProvider, cfg.Provider)
	}
}
