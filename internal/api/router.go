package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pocketledger/pocketledger/internal/api/middleware"
)

// NewRouter wires the handlers behind request id, logging, panic recovery
// and, for /api, identity resolution.
func NewRouter(h *Handler, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Accounts endpoints
	mux.HandleFunc("GET /api/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/accounts", h.CreateAccount)
	mux.HandleFunc("PUT /api/accounts/{id}/default", h.SetDefaultAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", h.DeleteAccount)
	mux.HandleFunc("POST /api/accounts/{id}/import", h.ImportTransactions)

	// Transactions endpoints
	mux.HandleFunc("GET /api/transactions", h.ListTransactions)
	mux.HandleFunc("POST /api/transactions", h.CreateTransaction)
	mux.HandleFunc("POST /api/transactions/bulk-delete", h.BulkDeleteTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", h.GetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", h.UpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.DeleteTransaction)

	// Goals endpoints
	mux.HandleFunc("GET /api/goals", h.ListGoals)
	mux.HandleFunc("POST /api/goals", h.CreateGoal)
	mux.HandleFunc("PATCH /api/goals/{id}", h.UpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", h.DeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/progress", h.AddGoalProgress)

	// Budget endpoints
	mux.HandleFunc("GET /api/budget", h.GetBudget)
	mux.HandleFunc("PUT /api/budget", h.SetBudget)

	root := http.NewServeMux()
	root.Handle("/api/", Identity(h.ledger)(mux))
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return middleware.RequestID(
		middleware.Logger(log)(
			middleware.Recovery(log)(root),
		),
	)
}
