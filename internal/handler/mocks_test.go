package handler

import (
	"context"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/scan"
)

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadBytesFunc   func(ctx context.Context, blobName string, data []byte) error
	DownloadBytesFunc func(ctx context.Context, blobName string) ([]byte, error)
}

func (m *MockBlobClient) UploadBytes(ctx context.Context, blobName string, data []byte) error {
	if m.UploadBytesFunc != nil {
		return m.UploadBytesFunc(ctx, blobName, data)
	}
	return nil
}

func (m *MockBlobClient) DownloadBytes(ctx context.Context, blobName string) ([]byte, error) {
	if m.DownloadBytesFunc != nil {
		return m.DownloadBytesFunc(ctx, blobName)
	}
	return nil, nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueScanFunc func(ctx context.Context, job models.ScanJob) error
}

func (m *MockQueueClient) EnqueueScan(ctx context.Context, job models.ScanJob) error {
	if m.EnqueueScanFunc != nil {
		return m.EnqueueScanFunc(ctx, job)
	}
	return nil
}

// MockLedgerClient is a mock implementation of LedgerClient
type MockLedgerClient struct {
	ArchiveTransactionsFunc func(ctx context.Context, transactions []models.Transaction) error
}

func (m *MockLedgerClient) ArchiveTransactions(ctx context.Context, transactions []models.Transaction) error {
	if m.ArchiveTransactionsFunc != nil {
		return m.ArchiveTransactionsFunc(ctx, transactions)
	}
	return nil
}

// MockScanner is a mock implementation of Scanner
type MockScanner struct {
	ScanFunc func(ctx context.Context, generation uint64, image []byte, filename string) scan.Result
}

func (m *MockScanner) Scan(ctx context.Context, generation uint64, image []byte, filename string) scan.Result {
	if m.ScanFunc != nil {
		return m.ScanFunc(ctx, generation, image, filename)
	}
	return scan.Result{Generation: generation}
}
