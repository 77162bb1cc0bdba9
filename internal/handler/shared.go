package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/store"
)

// Dependencies holds the services required by the handlers. Blob, Queue and
// Ledger are optional.
type Dependencies struct {
	Store   *store.Store
	Scanner Scanner
	Blob    BlobClient
	Queue   QueueClient
	Ledger  LedgerClient
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps store sentinel errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrCandidateNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidEntry), errors.Is(err, store.ErrUnknownCategory):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected store error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal error")
	}
}

// candidateIndex reads the {index} path segment.
func candidateIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid candidate index: "+raw)
		return 0, false
	}
	return index, true
}

// candidateBatch reads the optional ?generation= query parameter naming
// the batch a candidate edit was made against. Absent means zero, which
// the store treats as the current batch.
func candidateBatch(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("generation")
	if raw == "" {
		return 0, true
	}
	batch, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid generation: "+raw)
		return 0, false
	}
	return batch, true
}

// candidateRef reads the batch and the {index} path segment.
func candidateRef(w http.ResponseWriter, r *http.Request) (uint64, int, bool) {
	batch, ok := candidateBatch(w, r)
	if !ok {
		return 0, 0, false
	}
	index, ok := candidateIndex(w, r)
	return batch, index, ok
}

// archive exports confirmed transactions when a ledger is configured.
// Failures are logged; the in-memory store is the source of truth.
func (d *Dependencies) archive(ctx context.Context, transactions []models.Transaction) {
	if d.Ledger == nil || len(transactions) == 0 {
		return
	}
	if err := d.Ledger.ArchiveTransactions(ctx, transactions); err != nil {
		slog.Warn("failed to archive transactions", "count", len(transactions), "error", err)
	}
}
