// Package scan runs one screenshot through OCR and the segmenter and
// installs the result as the pending candidate batch.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rocjay1/statement-ocr/internal/classify"
	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/ocr"
	"github.com/rocjay1/statement-ocr/internal/ocrparse"
)

// CandidateStore is the part of the transaction store a scan writes to.
type CandidateStore interface {
	Memory() classify.Memory
	ReplaceCandidates(generation uint64, batch []models.ParsedTransaction) bool
}

// TextArchiver keeps a copy of the raw OCR text.
type TextArchiver interface {
	UploadText(ctx context.Context, blobName, text string) error
}

// ScanRecorder writes the audit entry for a finished scan.
type ScanRecorder interface {
	RecordScan(ctx context.Context, record models.ScanRecord) error
}

// Result is the outcome of one scan.
type Result struct {
	Generation uint64                     `json:"generation"`
	Candidates []models.ParsedTransaction `json:"candidates"`
	Notice     ocrparse.Notice            `json:"notice,omitempty"`
	Stale      bool                       `json:"stale"`
}

// Failed reports whether OCR itself failed.
func (r Result) Failed() bool {
	return r.Notice == ocrparse.NoticeOCRFailed
}

// Scanner is safe for concurrent use when its collaborators are.
type Scanner struct {
	extractor ocr.Extractor
	store     CandidateStore
	archive   TextArchiver
	recorder  ScanRecorder
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithArchive stores every OCR transcript next to its screenshot.
func WithArchive(a TextArchiver) Option {
	return func(s *Scanner) { s.archive = a }
}

// WithRecorder writes a scan log entry after every scan.
func WithRecorder(r ScanRecorder) Option {
	return func(s *Scanner) { s.recorder = r }
}

// New creates a Scanner.
func New(extractor ocr.Extractor, store CandidateStore, opts ...Option) *Scanner {
	s := &Scanner{extractor: extractor, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan extracts text from image and segments it. The batch replaces the
// pending candidates only if generation is still the latest upload. An OCR
// failure leaves the pending batch alone and is reported through the
// notice.
func (s *Scanner) Scan(ctx context.Context, generation uint64, image []byte, filename string) Result {
	result := Result{Generation: generation, Candidates: []models.ParsedTransaction{}}

	text, err := s.extractor.ExtractText(ctx, image, filename)
	if err != nil {
		slog.Error("OCR failed", "provider", s.extractor.Name(), "generation", generation, "filename", filename, "error", err)
		result.Notice = ocrparse.NoticeOCRFailed
		s.record(ctx, result, filename, 0)
		return result
	}

	if s.archive != nil && text != "" {
		blobName := TranscriptName(generation, filename)
		if err := s.archive.UploadText(ctx, blobName, text); err != nil {
			slog.Warn("failed to archive OCR text", "blob_name", blobName, "error", err)
		}
	}

	candidates := ocrparse.Segment(text, s.store.Memory())
	result.Candidates = candidates
	result.Notice = ocrparse.Assess(text, len(candidates))
	result.Stale = !s.store.ReplaceCandidates(generation, candidates)

	slog.Info("scan complete",
		"provider", s.extractor.Name(),
		"generation", generation,
		"filename", filename,
		"text_length", len(text),
		"candidates", len(candidates),
		"stale", result.Stale,
	)
	s.record(ctx, result, filename, len(text))
	return result
}

func (s *Scanner) record(ctx context.Context, result Result, filename string, textLength int) {
	if s.recorder == nil {
		return
	}
	record := models.ScanRecord{
		Generation: result.Generation,
		Filename:   filename,
		Provider:   s.extractor.Name(),
		TextLength: textLength,
		Candidates: len(result.Candidates),
		Notice:     string(result.Notice),
		Stale:      result.Stale,
	}
	if err := s.recorder.RecordScan(ctx, record); err != nil {
		slog.Warn("failed to record scan", "generation", result.Generation, "error", err)
	}
}

// TranscriptName is the blob that holds the OCR text of one upload.
func TranscriptName(generation uint64, filename string) string {
	return fmt.Sprintf("transcripts/%d-%s.txt", generation, filepath.Base(filename))
}
