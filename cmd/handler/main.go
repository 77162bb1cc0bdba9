package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rocjay1/statement-ocr/internal/config"
	"github.com/rocjay1/statement-ocr/internal/handler"
	"github.com/rocjay1/statement-ocr/internal/ocr"
	"github.com/rocjay1/statement-ocr/internal/scan"
	"github.com/rocjay1/statement-ocr/internal/services"
	"github.com/rocjay1/statement-ocr/internal/store"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()

	extractor, err := ocr.New(ctx, cfg.OCR)
	if err != nil {
		slog.Error("Failed to init OCR extractor", "provider", cfg.OCR.Provider, "error", err)
		os.Exit(1)
	}

	st := store.New()
	deps := &handler.Dependencies{Store: st}
	var scanOpts []scan.Option

	// Azure services are optional; without them scans run inline.
	if cfg.BlobServiceURL != "" {
		blobService, err := services.NewBlobService(ctx, cfg.BlobServiceURL, cfg.ScansContainer)
		if err != nil {
			slog.Error("Failed to init BlobService", "error", err)
			os.Exit(1)
		}
		deps.Blob = blobService
		scanOpts = append(scanOpts, scan.WithArchive(blobService))
	}

	if cfg.QueueServiceURL != "" {
		queueService, err := services.NewQueueService(ctx, cfg.QueueServiceURL, cfg.ScanQueue)
		if err != nil {
			slog.Error("Failed to init QueueService", "error", err)
			os.Exit(1)
		}
		deps.Queue = queueService
	}

	if cfg.TableServiceURL != "" {
		ledgerService, err := services.NewLedgerService(ctx, cfg.TableServiceURL, cfg.LedgerTable, cfg.ScanLogTable)
		if err != nil {
			slog.Error("Failed to init LedgerService", "error", err)
			os.Exit(1)
		}
		deps.Ledger = ledgerService
		scanOpts = append(scanOpts, scan.WithRecorder(ledgerService))
	}

	deps.Scanner = scan.New(extractor, st, scanOpts...)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(handler.NewRouter(deps)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting server",
		"port", cfg.Port,
		"ocr_provider", extractor.Name(),
		"async_scans", cfg.AsyncScans(),
		"ledger", cfg.TableServiceURL != "",
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

const bodyPreviewLimit = 512

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// bodyPreview returns the start of a JSON request body and restores it.
// Uploads are never buffered for logging.
func bodyPreview(r *http.Request) string {
	if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, bodyPreviewLimit))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return string(head)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_type", r.Header.Get("Content-Type"),
			"content_length", r.ContentLength,
			"body_preview", bodyPreview(r),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}
