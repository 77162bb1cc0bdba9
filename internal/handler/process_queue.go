package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocjay1/statement-ocr/internal/models"
)

// invokeRequest represents the payload from Azure Functions Custom Handler.
type invokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data"`
	Metadata map[string]any             `json:"Metadata"`
}

// decodeScanJob reads the queue item, which the host delivers either as a
// JSON string or as an already decoded object.
func decodeScanJob(raw json.RawMessage) (models.ScanJob, error) {
	var job models.ScanJob

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = json.RawMessage(text)
	}
	if err := json.Unmarshal(raw, &job); err != nil {
		return job, fmt.Errorf("invalid scan job: %w", err)
	}
	return job, nil
}

// ProcessQueue handles the queue trigger for screenshots uploaded by
// HandleScanUpload.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var invokeReq invokeRequest
	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	item, ok := invokeReq.Data["queueItem"]
	if !ok {
		item, ok = invokeReq.Data["queueitem"]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}

	job, err := decodeScanJob(item)
	if err != nil {
		slog.Error("failed to decode queue item", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if job.BlobName == "" {
		slog.Warn("queue message missing blob_name", "generation", job.Generation)
		WriteError(w, http.StatusBadRequest, "Missing blob_name")
		return
	}

	if current := d.Store.Generation(); job.Generation != current {
		// A newer upload exists; scanning this one would only be discarded.
		slog.Info("skipping superseded scan job", "blob_name", job.BlobName, "generation", job.Generation, "current_generation", current)
		w.WriteHeader(http.StatusOK)
		return
	}

	if d.Blob == nil {
		slog.Error("queue job received without blob storage configured", "blob_name", job.BlobName)
		WriteError(w, http.StatusServiceUnavailable, "Blob storage is not configured")
		return
	}

	image, err := d.Blob.DownloadBytes(r.Context(), job.BlobName)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download screenshot: %v", err))
		return
	}

	result := d.Scanner.Scan(r.Context(), job.Generation, image, job.Filename)
	if result.Failed() {
		// Let the host retry; the pending batch is untouched.
		WriteError(w, http.StatusInternalServerError, string(result.Notice))
		return
	}

	slog.Info("queue processing complete", "blob_name", job.BlobName, "generation", job.Generation, "candidates", len(result.Candidates), "stale", result.Stale)
	w.WriteHeader(http.StatusOK)
}
