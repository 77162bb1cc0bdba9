package handler

import (
	"log/slog"
	"net/http"
	"strings"
)

// NewRouter registers every endpoint on a new ServeMux.
func NewRouter(d *Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/scans", d.HandleScanUpload)

	mux.HandleFunc("GET /api/candidates", d.HandleListCandidates)
	mux.HandleFunc("POST /api/candidates/confirm", d.HandleConfirmCandidates)
	mux.HandleFunc("DELETE /api/candidates/{index}", d.HandleDiscardCandidate)
	mux.HandleFunc("PUT /api/candidates/{index}/category", d.HandleUpdateCandidateCategory)
	mux.HandleFunc("POST /api/candidates/{index}/cycle", d.HandleCycleCandidateCategory)

	mux.HandleFunc("GET /api/transactions", d.HandleListTransactions)
	mux.HandleFunc("POST /api/transactions", d.HandleAddTransaction)

	mux.HandleFunc("GET /api/summary", d.HandleSummary)
	mux.HandleFunc("GET /api/categories", d.HandleCategories)
	mux.HandleFunc("GET /api/budget", d.HandleBudget)
	mux.HandleFunc("POST /api/budget", d.HandleBudget)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Functions host triggers. Method-less patterns because the host's
	// method is not guaranteed.
	mux.HandleFunc("/HttpTrigger", d.HandleHTTPTrigger(mux))
	mux.HandleFunc("/ProcessQueue", d.ProcessQueue)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ", ")
		}
		slog.Warn("unmatched request", "method", r.Method, "path", r.URL.Path, "headers", headers)
		WriteError(w, http.StatusNotFound, "Not found")
	})

	return mux
}
