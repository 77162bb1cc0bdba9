package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/rocjay1/statement-ocr/internal/models"
)

// QueueService posts scan jobs to an Azure Storage queue.
type QueueService struct {
	client *azqueue.QueueClient
	queue  string
}

// NewQueueService connects to the queue endpoint at serviceURL and makes
// sure queue exists.
func NewQueueService(ctx context.Context, serviceURL, queue string) (*QueueService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("queue service URL is required")
	}

	slog.Info("initializing queue service", "queue_url", serviceURL, "queue", queue)
	var serviceClient *azqueue.ServiceClient

	if isLocal(serviceURL) {
		name, key := azuriteCredentials()
		cred, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		serviceClient, err = azqueue.NewServiceClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential("queue")
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		serviceClient, err = azqueue.NewServiceClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	client := serviceClient.NewQueueClient(queue)
	if _, err := client.Create(ctx, nil); err != nil && !hasErrorCode(err, "QueueAlreadyExists") {
		return nil, fmt.Errorf("failed to create queue %s: %w", queue, err)
	}

	slog.Info("queue service initialized successfully", "queue", queue)
	return &QueueService{client: client, queue: queue}, nil
}

// EnqueueScan posts job to the scan queue.
func (s *QueueService) EnqueueScan(ctx context.Context, job models.ScanJob) error {
	msg, err := EncodeScanJob(job)
	if err != nil {
		return err
	}

	if _, err := s.client.EnqueueMessage(ctx, msg, nil); err != nil {
		slog.Error("failed to enqueue scan job", "queue", s.queue, "blob_name", job.BlobName, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", s.queue, err)
	}

	slog.Info("enqueued scan job", "queue", s.queue, "blob_name", job.BlobName, "generation", job.Generation)
	return nil
}

// EncodeScanJob renders job as a base64 JSON message, the encoding the
// Functions host expects for queue triggers.
func EncodeScanJob(job models.ScanJob) (string, error) {
	raw, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scan job: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
