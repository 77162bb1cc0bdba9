package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobService stores uploaded screenshots and their OCR text in one container.
type BlobService struct {
	client    *azblob.Client
	container string
}

// NewBlobService connects to the blob endpoint at serviceURL and makes sure
// container exists.
func NewBlobService(ctx context.Context, serviceURL, container string) (*BlobService, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("blob service URL is required")
	}

	slog.Info("initializing blob service", "blob_url", serviceURL, "container", container)
	var client *azblob.Client

	if isLocal(serviceURL) {
		name, key := azuriteCredentials()
		cred, err := azblob.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential("blob")
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
	}

	svc := &BlobService{client: client, container: container}
	if err := svc.ensureContainer(ctx); err != nil {
		return nil, err
	}

	slog.Info("blob service initialized successfully", "container", container)
	return svc, nil
}

func (s *BlobService) ensureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !hasErrorCode(err, "ContainerAlreadyExists") {
		return fmt.Errorf("failed to create container %s: %w", s.container, err)
	}
	return nil
}

// UploadBytes writes data to blobName.
func (s *BlobService) UploadBytes(ctx context.Context, blobName string, data []byte) error {
	slog.Info("uploading blob", "container", s.container, "blob_name", blobName, "size_bytes", len(data))

	if _, err := s.client.UploadBuffer(ctx, s.container, blobName, data, nil); err != nil {
		slog.Error("failed to upload blob", "container", s.container, "blob_name", blobName, "error", err)
		return fmt.Errorf("failed to upload blob %s/%s: %w", s.container, blobName, err)
	}
	return nil
}

// UploadText writes text to blobName.
func (s *BlobService) UploadText(ctx context.Context, blobName, text string) error {
	return s.UploadBytes(ctx, blobName, []byte(text))
}

// DownloadBytes reads the whole of blobName.
func (s *BlobService) DownloadBytes(ctx context.Context, blobName string) ([]byte, error) {
	slog.Info("downloading blob", "container", s.container, "blob_name", blobName)
	resp, err := s.client.DownloadStream(ctx, s.container, blobName, nil)
	if err != nil {
		slog.Error("failed to download blob", "container", s.container, "blob_name", blobName, "error", err)
		return nil, fmt.Errorf("failed to download blob %s/%s: %w", s.container, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob content: %w", err)
	}

	slog.Info("successfully downloaded blob", "container", s.container, "blob_name", blobName, "size_bytes", len(data))
	return data, nil
}
