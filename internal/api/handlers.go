package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/api/middleware"
	"github.com/pocketledger/pocketledger/internal/budget"
	"github.com/pocketledger/pocketledger/internal/goals"
	"github.com/pocketledger/pocketledger/internal/importer"
	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

// Handler serves the /api endpoints.
type Handler struct {
	ledger   *ledger.Service
	importer *importer.Service
	formats  *importer.Registry
	goals    *goals.Service
	budget   *budget.Service
	now      func() time.Time
}

// NewHandler creates a Handler over the engine services.
func NewHandler(l *ledger.Service, i *importer.Service, g *goals.Service, b *budget.Service) *Handler {
	return &Handler{
		ledger:   l,
		importer: i,
		formats:  importer.DefaultRegistry(),
		goals:    g,
		budget:   b,
		now:      time.Now,
	}
}

type deleted struct {
	ID string `json:"id"`
}

func userID(r *http.Request) string {
	u, _ := UserFromContext(r.Context())
	return u.ID
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseDay accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func parseDay(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, model.Invalid(field, "invalid date %q", s)
	}
	return t, nil
}

// checkBudget runs the budget alert check after spending changes. Failures
// are logged and never fail the request.
func (h *Handler) checkBudget(r *http.Request) {
	if h.budget == nil {
		return
	}
	if _, err := h.budget.CheckAlert(r.Context(), userID(r), h.now()); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("budget alert check failed")
	}
}

// --- accounts ---

// ListAccounts handles GET /api/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := h.ledger.ListAccounts(r.Context(), userID(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if accts == nil {
		accts = []model.Account{}
	}
	middleware.WriteJSON(w, http.StatusOK, accts)
}

// CreateAccount handles POST /api/accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var in ledger.AccountInput
	if !decode(w, r, &in) {
		return
	}
	a, err := h.ledger.CreateAccount(r.Context(), userID(r), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, OK(a))
}

// SetDefaultAccount handles PUT /api/accounts/{id}/default
func (h *Handler) SetDefaultAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.ledger.UpdateDefaultAccount(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(a))
}

// DeleteAccount handles DELETE /api/accounts/{id}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.ledger.DeleteAccount(r.Context(), userID(r), id); err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(deleted{ID: id}))
}

type importRequest struct {
	CSV       string                  `json:"csv"`
	Rows      [][]string              `json:"rows"`
	Format    string                  `json:"format"`
	Mapping   *importer.ColumnMapping `json:"mapping"`
	HasHeader bool                    `json:"hasHeader"`
	FileName  string                  `json:"fileName"`
}

// ImportTransactions handles POST /api/accounts/{id}/import
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !decode(w, r, &req) {
		return
	}

	rows := req.Rows
	if req.CSV != "" {
		var err error
		if rows, err = importer.ReadCSV(strings.NewReader(req.CSV)); err != nil {
			writeErr(w, r, model.Invalid("csv", "%v", err))
			return
		}
	}

	mapping := importer.DefaultMapping()
	opts := importer.Options{HasHeader: req.HasHeader, FileName: req.FileName}
	switch {
	case req.Format != "":
		f, ok := h.formats.Get(req.Format)
		if !ok {
			writeErr(w, r, model.Invalid("format", "unknown import format %q", req.Format))
			return
		}
		mapping, opts = f.Mapping, f.Options(req.FileName)
	case req.Mapping != nil:
		mapping = *req.Mapping
	}

	res, err := h.importer.Import(r.Context(), userID(r), r.PathValue("id"), rows, mapping, opts)
	if err != nil {
		status, msg := classify(err)
		if status != http.StatusInternalServerError && res.TotalRows > 0 {
			middleware.WriteJSON(w, status, Fail(msg, res))
			return
		}
		writeErr(w, r, err)
		return
	}
	h.checkBudget(r)
	middleware.WriteJSON(w, http.StatusOK, OK(res))
}

// --- transactions ---

type transactionRequest struct {
	AccountID         string                  `json:"accountId"`
	Type              model.TransactionType   `json:"type"`
	Amount            decimal.Decimal         `json:"amount"`
	Description       string                  `json:"description"`
	Category          string                  `json:"category"`
	Date              string                  `json:"date"`
	IsRecurring       bool                    `json:"isRecurring"`
	RecurringInterval model.RecurringInterval `json:"recurringInterval"`
}

func (req transactionRequest) input() (ledger.TransactionInput, error) {
	date, err := parseDay("date", req.Date)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	return ledger.TransactionInput{
		AccountID:         req.AccountID,
		Type:              req.Type,
		Amount:            req.Amount,
		Description:       req.Description,
		Category:          req.Category,
		Date:              date,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
	}, nil
}

// ListTransactions handles GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.TransactionFilter{
		AccountID: q.Get("accountId"),
		Type:      model.TransactionType(strings.ToUpper(q.Get("type"))),
	}
	if f.Type != "" && !f.Type.Valid() {
		writeErr(w, r, model.Invalid("type", "must be INCOME or EXPENSE"))
		return
	}
	from, err := parseDay("from", q.Get("from"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	to, err := parseDay("to", q.Get("to"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	f.From = from
	if !to.IsZero() {
		f.To = to.AddDate(0, 0, 1) // inclusive
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeErr(w, r, model.Invalid("limit", "must be a non-negative integer"))
			return
		}
		f.Limit = n
	}

	txns, err := h.ledger.ListTransactions(r.Context(), userID(r), f)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, txns)
}

// GetTransaction handles GET /api/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := h.ledger.GetTransaction(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

// CreateTransaction handles POST /api/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := h.ledger.CreateTransaction(r.Context(), userID(r), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if t.Type == model.TransactionExpense {
		h.checkBudget(r)
	}
	middleware.WriteJSON(w, http.StatusCreated, OK(t))
}

// UpdateTransaction handles PUT /api/transactions/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decode(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := h.ledger.UpdateTransaction(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.checkBudget(r)
	middleware.WriteJSON(w, http.StatusOK, OK(t))
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.ledger.DeleteTransaction(r.Context(), userID(r), id); err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(deleted{ID: id}))
}

// BulkDeleteTransactions handles POST /api/transactions/bulk-delete
func (h *Handler) BulkDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := h.ledger.BulkDeleteTransactions(r.Context(), userID(r), req.IDs)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(res))
}

// --- goals ---

// ListGoals handles GET /api/goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	gs, err := h.goals.List(r.Context(), userID(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if gs == nil {
		gs = []model.Goal{}
	}
	middleware.WriteJSON(w, http.StatusOK, gs)
}

// CreateGoal handles POST /api/goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var in goals.GoalInput
	if !decode(w, r, &in) {
		return
	}
	g, err := h.goals.Create(r.Context(), userID(r), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, OK(g))
}

// UpdateGoal handles PATCH /api/goals/{id}
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var u goals.GoalUpdate
	if !decode(w, r, &u) {
		return
	}
	g, err := h.goals.Update(r.Context(), userID(r), r.PathValue("id"), u)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(g))
}

// DeleteGoal handles DELETE /api/goals/{id}
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.goals.Delete(r.Context(), userID(r), id); err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(deleted{ID: id}))
}

// AddGoalProgress handles POST /api/goals/{id}/progress
func (h *Handler) AddGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		writeErr(w, r, model.Invalid("amount", "must be greater than zero"))
		return
	}
	g, err := h.goals.AddProgress(r.Context(), userID(r), r.PathValue("id"), req.Amount)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, OK(g))
}

// --- budget ---

// GetBudget handles GET /api/budget
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	st, err := h.budget.Status(r.Context(), userID(r), h.now())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, st)
}

// SetBudget handles PUT /api/budget
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	b, err := h.budget.Set(r.Context(), userID(r), req.Amount)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.checkBudget(r)
	middleware.WriteJSON(w, http.StatusOK, OK(b))
}
