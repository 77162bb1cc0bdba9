package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocjay1/statement-ocr/internal/models"
)

type candidateCategoryRequest struct {
	Category string `json:"category"`
}

// HandleListCandidates returns the pending batch from the latest scan.
// Edits may pass its generation back to make sure they land on this batch.
func (d *Dependencies) HandleListCandidates(w http.ResponseWriter, r *http.Request) {
	batch, candidates := d.Store.CandidateBatch()
	WriteJSON(w, http.StatusOK, map[string]any{
		"generation": batch,
		"candidates": candidates,
	})
}

// HandleUpdateCandidateCategory sets one candidate's category.
func (d *Dependencies) HandleUpdateCandidateCategory(w http.ResponseWriter, r *http.Request) {
	batch, index, ok := candidateRef(w, r)
	if !ok {
		return
	}

	var req candidateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, known := models.ParseCategory(req.Category)
	if !known {
		category = models.Category(req.Category)
	}
	if err := d.Store.UpdateCandidateCategory(batch, index, category); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, d.Store.Candidates())
}

// HandleCycleCandidateCategory moves one candidate to the next category.
func (d *Dependencies) HandleCycleCandidateCategory(w http.ResponseWriter, r *http.Request) {
	batch, index, ok := candidateRef(w, r)
	if !ok {
		return
	}

	category, err := d.Store.CycleCandidateCategory(batch, index)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"index":    index,
		"category": category,
		"style":    models.StyleFor(category),
	})
}

// HandleDiscardCandidate drops one candidate from the pending batch.
func (d *Dependencies) HandleDiscardCandidate(w http.ResponseWriter, r *http.Request) {
	batch, index, ok := candidateRef(w, r)
	if !ok {
		return
	}
	if err := d.Store.DiscardCandidate(batch, index); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, d.Store.Candidates())
}

// HandleConfirmCandidates adds the whole pending batch to the confirmed
// transactions.
func (d *Dependencies) HandleConfirmCandidates(w http.ResponseWriter, r *http.Request) {
	batch, ok := candidateBatch(w, r)
	if !ok {
		return
	}

	confirmed, err := d.Store.ConfirmPending(batch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	slog.Info("confirmed pending candidates", "count", len(confirmed), "generation", batch)
	d.archive(r.Context(), confirmed)
	WriteJSON(w, http.StatusOK, confirmed)
}
