/**
 * @description
 * HTTP handlers for transaction CRUD, history pagination, the recent view
 * and the dashboard statistics endpoint.
 */

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/spendwise/expense-service/internal/app"
	"github.com/spendwise/expense-service/internal/domain"
)

// parseOptionalPositiveInt parses a query parameter that defaults when empty
// and must otherwise be a positive integer.
func parseOptionalPositiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

// ListTransactionsHandler handles GET /expenses/user/{userId}?page&limit.
func (h *Handlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r, "userId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	page, err := parseOptionalPositiveInt(r.URL.Query().Get("page"), 1)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid page")
		return
	}
	limit, err := parseOptionalPositiveInt(r.URL.Query().Get("limit"), app.DefaultPageSize)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	result, err := h.service.ListTransactions(r.Context(), userID, page, limit)
	if err != nil {
		h.respondError(w, err, "Error fetching expenses")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{
		"expenses":    result.Transactions,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"total":       result.Total,
	})
}

// GetTransactionHandler handles GET /expenses/{id}.
func (h *Handlers) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}
	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "Error fetching expense")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{"expense": tx})
}

// CreateTransactionHandler handles POST /expenses.
func (h *Handlers) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req app.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.service.AddTransaction(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "Error adding expense")
		return
	}

	message := "Expense added successfully"
	if tx.Type == domain.TypeIncome {
		message = "Income added successfully"
	}
	h.writeSuccess(w, http.StatusCreated, message, envelope{"expense": tx})
}

// UpdateTransactionHandler handles PUT /expenses/{id}. The patch replaces
// the transaction's mutable fields wholesale.
func (h *Handlers) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}
	var patch domain.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.service.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, err, "Error updating transaction")
		return
	}
	h.writeSuccess(w, http.StatusOK, "Transaction updated successfully", envelope{"expense": tx})
}

// DeleteTransactionHandler handles DELETE /expenses/{id}.
func (h *Handlers) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		h.respondError(w, err, "Error deleting transaction")
		return
	}
	h.writeSuccess(w, http.StatusOK, "Transaction deleted successfully", nil)
}

// DashboardStatsHandler handles GET /expenses/user/{userId}/stats.
func (h *Handlers) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r, "userId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	stats, err := h.service.GetDashboardStats(r.Context(), userID)
	if err != nil {
		h.respondError(w, err, "Error fetching stats")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{"stats": stats})
}

// RecentTransactionsHandler handles GET /expenses/user/{userId}/recent.
func (h *Handlers) RecentTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r, "userId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	expenses, err := h.service.RecentTransactions(r.Context(), userID, app.DefaultRecentCount)
	if err != nil {
		h.respondError(w, err, "Error fetching recent expenses")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{"expenses": expenses})
}
