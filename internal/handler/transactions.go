package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/store"
)

// HandleListTransactions returns the confirmed transactions, most recent
// first, each with its display style.
func (d *Dependencies) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	type styledTransaction struct {
		models.Transaction
		Style models.CategoryStyle `json:"style"`
	}

	txs := d.Store.Transactions()
	out := make([]styledTransaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, styledTransaction{Transaction: t, Style: models.StyleFor(t.Category)})
	}
	WriteJSON(w, http.StatusOK, out)
}

// HandleAddTransaction records a manually entered transaction.
func (d *Dependencies) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var entry store.ManualEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := d.Store.AddManual(entry)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	d.archive(r.Context(), []models.Transaction{tx})
	WriteJSON(w, http.StatusCreated, tx)
}
