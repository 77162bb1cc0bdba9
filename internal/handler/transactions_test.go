package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTransaction(t *testing.T) {
	deps := &Dependencies{Store: store.New()}

	w := serve(deps, http.MethodPost, "/api/transactions", `{"date": "2025-08-01", "description": "Vet", "category": "Pets", "amount": "-500.00"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var tx models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, models.Category("Pets"), tx.Category)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-500)))
}

func TestAddTransaction_Invalid(t *testing.T) {
	deps := &Dependencies{Store: store.New()}

	w := serve(deps, http.MethodPost, "/api/transactions", `{"date": "01.08.25", "description": "Vet", "amount": "1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(deps, http.MethodPost, "/api/transactions", `{"date": "2025-08-01", "description": "", "amount": "1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(deps, http.MethodPost, "/api/transactions", `nope`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, deps.Store.Transactions())
}

func TestListTransactions_UnknownCategoryUsesOtherStyle(t *testing.T) {
	deps := &Dependencies{Store: store.New()}
	serve(deps, http.MethodPost, "/api/transactions", `{"date": "2025-08-01", "description": "Vet", "category": "Pets", "amount": "-500"}`)
	serve(deps, http.MethodPost, "/api/transactions", `{"date": "2025-08-02", "description": "Salary", "category": "Income", "amount": "3500"}`)

	w := serve(deps, http.MethodGet, "/api/transactions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []struct {
		Description string               `json:"description"`
		Category    models.Category      `json:"category"`
		Style       models.CategoryStyle `json:"style"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Salary", resp[0].Description)

	other := models.StyleFor(models.CategoryOther)
	assert.Equal(t, models.Category("Pets"), resp[1].Style.Category)
	assert.Equal(t, other.Color, resp[1].Style.Color)
	assert.Equal(t, other.Icon, resp[1].Style.Icon)
}
