package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocjay1/statement-ocr/internal/models"
	"github.com/rocjay1/statement-ocr/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	w := serve(&Dependencies{Store: store.New()}, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestUnmatchedRoute(t *testing.T) {
	w := serve(&Dependencies{Store: store.New()}, http.MethodGet, "/api/nothing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategories(t *testing.T) {
	w := serve(&Dependencies{Store: store.New()}, http.MethodGet, "/api/categories", "")

	var styles []models.CategoryStyle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &styles))
	require.Len(t, styles, len(models.AllCategories))
	assert.Equal(t, models.CategoryIncome, styles[0].Category)
}

func TestSummary(t *testing.T) {
	st := store.New()
	st.ConfirmBatch([]models.ParsedTransaction{
		{Date: "2025-08-01", Description: "Salary", Amount: decimal.NewFromInt(3500), Category: models.CategoryIncome},
		{Date: "2025-08-02", Description: "Rema", Amount: decimal.NewFromInt(-500), Category: models.CategoryEssentials},
	})

	w := serve(&Dependencies{Store: st}, http.MethodGet, "/api/summary", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var sum models.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(3000)))
	assert.True(t, sum.Inflow.Equal(decimal.NewFromInt(3500)))
}

func TestHandleHTTPTrigger(t *testing.T) {
	deps := &Dependencies{Store: store.New()}
	mux := NewRouter(deps)

	var envelope HTTPTriggerRequest
	envelope.Data.Req.Method = http.MethodPost
	envelope.Data.Req.URL = "http://localhost:7071/api/transactions"
	envelope.Data.Req.Headers = map[string][]string{"Content-Type": {"application/json"}}
	envelope.Data.Req.Body = base64.StdEncoding.EncodeToString([]byte(`{"date": "2025-08-01", "description": "Salary", "amount": "3500"}`))
	envelope.Data.Req.IsBase64Encoded = true
	body, _ := json.Marshal(envelope)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HTTPTriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusCreated, resp.Outputs.Res.StatusCode)
	assert.Equal(t, "application/json", resp.Outputs.Res.Headers["Content-Type"])

	txs := deps.Store.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, models.CategoryIncome, txs[0].Category)
}

func TestHandleHTTPTrigger_PlainBody(t *testing.T) {
	deps := &Dependencies{Store: store.New()}
	mux := NewRouter(deps)

	var envelope HTTPTriggerRequest
	envelope.Data.Req.Method = http.MethodGet
	envelope.Data.Req.URL = "http://localhost:7071/api/health"
	body, _ := json.Marshal(envelope)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewReader(body)))

	var resp HTTPTriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Outputs.Res.StatusCode)
	assert.JSONEq(t, `{"status": "ok"}`, resp.Outputs.Res.Body)
}

func TestHandleHTTPTrigger_BadEnvelope(t *testing.T) {
	mux := NewRouter(&Dependencies{Store: store.New()})
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestBody(t *testing.T) {
	assert.Equal(t, http.NoBody, requestBody("", false))
}
