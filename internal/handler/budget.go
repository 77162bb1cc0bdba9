package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocjay1/statement-ocr/internal/models"
)

type budgetResponse struct {
	Plan   models.BudgetPlan   `json:"plan"`
	Totals models.BudgetTotals `json:"totals"`
}

func newBudgetResponse(plan models.BudgetPlan) budgetResponse {
	return budgetResponse{Plan: plan, Totals: plan.Totals()}
}

// HandleBudget handles GET and POST requests for the budget planner.
func (d *Dependencies) HandleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, newBudgetResponse(d.Store.Budget()))
	case http.MethodPost:
		d.saveBudget(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (d *Dependencies) saveBudget(w http.ResponseWriter, r *http.Request) {
	var plan models.BudgetPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		slog.Warn("invalid budget request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d.Store.SaveBudget(plan)
	resp := newBudgetResponse(d.Store.Budget())
	slog.Info("saved budget plan", "income", resp.Totals.Income.String(), "balance", resp.Totals.Balance.String())
	WriteJSON(w, http.StatusOK, resp)
}
