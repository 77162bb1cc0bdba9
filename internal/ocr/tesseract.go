package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Tesseract runs a local tesseract binary.
type Tesseract struct {
	binary   string
	language string
	timeout  time.Duration
}

// NewTesseract creates a Tesseract extractor. binary may be a bare name
// resolved through PATH.
func NewTesseract(binary, language string, timeout time.Duration) *Tesseract {
	return &Tesseract{binary: binary, language: language, timeout: timeout}
}

// Name implements Extractor.
func (t *Tesseract) Name() string { return "tesseract" }

// ExtractText implements Extractor.
func (t *Tesseract) ExtractText(ctx context.Context, image []byte, filename string) (string, error) {
	if _, err := exec.LookPath(t.binary); err != nil {
		return "", fmt.Errorf("tesseract not available (install tesseract-ocr): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "statement-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	imgFile := filepath.Join(tmpDir, "screenshot"+ext)
	if err := os.WriteFile(imgFile, image, 0o600); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	// PSM 4 = single column of text of variable sizes.
	cmd := exec.CommandContext(ctx, t.binary, imgFile, "stdout", "-l", t.language, "--psm", "4")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		slog.Error("tesseract failed", "filename", filename, "error", err, "stderr", stderr.String())
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return string(out), nil
}

// tesseractLanguage maps OCR.space language codes onto tesseract's
// traineddata names where the two differ.
func tesseractLanguage(lang string) string {
	switch lang {
	case "ger":
		return "deu"
	case "fre":
		return "fra"
	case "chs":
		return "chi_sim"
	}
	return lang
}
