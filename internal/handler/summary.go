package handler

import (
	"net/http"

	"github.com/rocjay1/statement-ocr/internal/models"
)

// HandleSummary returns per-category totals of the confirmed transactions.
func (d *Dependencies) HandleSummary(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, d.Store.Summary())
}

// HandleCategories lists the category set with colors and icons.
func (d *Dependencies) HandleCategories(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, models.CategoryStyles())
}
