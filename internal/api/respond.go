/**
 * @description
 * JSON envelope helpers and the error-kind to HTTP status mapping shared by
 * every handler. All responses carry a boolean `success` flag; failures add a
 * message, and unexpected failures add the error detail alongside a generic
 * message so internal state never leaks beyond an error string.
 */

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spendwise/expense-service/internal/app"
	"github.com/spendwise/expense-service/internal/domain"
	"github.com/spendwise/expense-service/internal/store"
)

// envelope is the response body shape shared by every endpoint.
type envelope map[string]interface{}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeSuccess writes a success envelope, merging the payload fields in.
func (h *Handlers) writeSuccess(w http.ResponseWriter, status int, message string, payload envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	h.writeJSON(w, status, body)
}

// writeError writes a failure envelope with the given message.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, envelope{"success": false, "message": message})
}

// writeInternalError writes the generic failure shape for unexpected errors:
// a stable message plus the error detail.
func (h *Handlers) writeInternalError(w http.ResponseWriter, message string, err error) {
	h.writeJSON(w, http.StatusInternalServerError, envelope{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

// mapError translates a core error kind into an HTTP status and message.
// Unrecognized errors map to 500 with a zero status sentinel handled by the
// caller through writeInternalError.
func mapError(err error) (int, string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusBadRequest, "User already exists with this email"
	case errors.Is(err, app.ErrDuplicateCategory):
		return http.StatusBadRequest, "Category already exists"
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, app.ErrTooManyLoginAttempts):
		return http.StatusTooManyRequests, "Too many login attempts, please try again later"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, app.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, store.ErrTransactionNotFound):
		return http.StatusNotFound, "Transaction not found"
	}
	return 0, ""
}

// respondError maps a core error to its response, falling back to the given
// internal-failure message for unexpected errors.
func (h *Handlers) respondError(w http.ResponseWriter, err error, internalMessage string) {
	if status, message := mapError(err); status != 0 {
		h.writeError(w, status, message)
		return
	}
	h.writeInternalError(w, internalMessage, err)
}
