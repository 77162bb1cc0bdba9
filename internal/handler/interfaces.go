package handler

import (
	"context"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/scan"
)

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadBytes(ctx context.Context, blobName string, data []byte) error
	DownloadBytes(ctx context.Context, blobName string) ([]byte, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueScan(ctx context.Context, job models.ScanJob) error
}

// LedgerClient defines the table storage operations used by handlers.
type LedgerClient interface {
	ArchiveTransactions(ctx context.Context, transactions []models.Transaction) error
}

// Scanner runs OCR and segmentation for one upload.
type Scanner interface {
	Scan(ctx context.Context, generation uint64, image []byte, filename string) scan.Result
}
