// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// OCR providers.
const (
	ProviderOCRSpace  = "ocrspace"
	ProviderTesseract = "tesseract"
	ProviderGemini    = "gemini"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port     string
	LogLevel slog.Level

	BlobServiceURL  string
	QueueServiceURL string
	TableServiceURL string
	ScansContainer  string
	ScanQueue       string
	LedgerTable     string
	ScanLogTable    string

	OCR OCRConfig
}

// OCRConfig selects and configures the text extractor.
type OCRConfig struct {
	Provider      string
	OCRSpaceURL   string
	OCRSpaceKey   string
	Language      string
	Timeout       time.Duration
	TesseractPath string
	GeminiAPIKey  string
	GeminiModel   string
}

// AsyncScans reports whether uploads can be queued for background scanning.
func (c Config) AsyncScans() bool {
	return c.BlobServiceURL != "" && c.QueueServiceURL != ""
}

// Load reads a .env file if one is present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults for unset keys.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	level, err := ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	timeout, err := time.ParseDuration(get("OCR_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OCR_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("invalid OCR_TIMEOUT: must be positive, got %s", timeout)
	}

	cfg := Config{
		Port:            get("FUNCTIONS_CUSTOMHANDLER_PORT", "8080"),
		LogLevel:        level,
		BlobServiceURL:  get("BLOB_SERVICE_URL", ""),
		QueueServiceURL: get("QUEUE_SERVICE_URL", ""),
		TableServiceURL: get("TABLE_SERVICE_URL", ""),
		ScansContainer:  get("SCANS_CONTAINER", "statement-scans"),
		ScanQueue:       get("SCAN_QUEUE", "scan-queue"),
		LedgerTable:     get("LEDGER_TABLE", "ledger"),
		ScanLogTable:    get("SCAN_LOG_TABLE", "scanlog"),
		OCR: OCRConfig{
			Provider:      strings.ToLower(get("OCR_PROVIDER", ProviderOCRSpace)),
			OCRSpaceURL:   get("OCR_SPACE_URL", "https://api.ocr.space/parse/image"),
			OCRSpaceKey:   get("OCR_SPACE_API_KEY", "helloworld"),
			Language:      get("OCR_LANGUAGE", "eng"),
			Timeout:       timeout,
			TesseractPath: get("TESSERACT_PATH", "tesseract"),
			GeminiAPIKey:  get("GEMINI_API_KEY", ""),
			GeminiModel:   get("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	switch cfg.OCR.Provider {
	case ProviderOCRSpace, ProviderTesseract:
	case ProviderGemini:
		if cfg.OCR.GeminiAPIKey == "" {
			return Config{}, fmt.Errorf("GEMINI_API_KEY is required when OCR_PROVIDER is %q", ProviderGemini)
		}
	default:
		return Config{}, fmt.Errorf("unknown OCR_PROVIDER %q", cfg.OCR.Provider)
	}

	return cfg, nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
