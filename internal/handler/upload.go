package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rocjay1/statement-ocr/internal/models"
)

const maxUploadBytes = 10 << 20

// HandleScanUpload accepts a statement screenshot. Each upload starts a new
// generation, so a slower earlier scan can never replace its candidates.
// With blob storage and a queue configured the scan runs in the background;
// otherwise it runs inline and the result is returned directly.
func (d *Dependencies) HandleScanUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", maxUploadBytes>>20)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if len(image) == 0 {
		WriteError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	filename := filepath.Base(header.Filename)
	generation := d.Store.BeginUpload()
	slog.Info("received screenshot upload", "filename", filename, "size_bytes", len(image), "generation", generation)

	if d.Blob == nil || d.Queue == nil {
		result := d.Scanner.Scan(r.Context(), generation, image, filename)
		status := http.StatusOK
		if result.Failed() {
			status = http.StatusBadGateway
		}
		WriteJSON(w, status, result)
		return
	}

	blobName := fmt.Sprintf("scans/%s-%d-%s", time.Now().UTC().Format("20060102-150405"), generation, filename)
	if err := d.Blob.UploadBytes(r.Context(), blobName, image); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	job := models.ScanJob{BlobName: blobName, Filename: filename, Generation: generation}
	if err := d.Queue.EnqueueScan(r.Context(), job); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue scan: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]any{
		"status":     "queued",
		"generation": generation,
		"blob_name":  blobName,
	})
}
