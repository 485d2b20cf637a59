/**
 * @description
 * This file defines the Transaction domain model. A single entity type covers
 * both income and expense records, distinguished by the Type field; the
 * amount is always strictly positive and direction is carried by Type alone.
 *
 * @notes
 * - UserID is a plain reference and is not checked against the users table at
 *   write time; transactions for unknown accounts are storable. Likewise the
 *   category is a free-form tag from a fixed set, not a foreign key into the
 *   owning user's category list.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// TransactionCategories is the fixed set of category tags a transaction may carry.
var TransactionCategories = []string{
	"Food", "Transportation", "Entertainment", "Utilities",
	"Shopping", "Healthcare", "Income", "Other",
}

const (
	maxDescriptionLength = 100
	maxNotesLength       = 500
)

// Transaction is a single income or expense record belonging to an account.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TransactionPatch carries the replacement field set for an update. Updates
// overwrite the mutable fields wholesale: anything omitted here falls back to
// its default (empty notes, a fresh date), and omitted required fields fail
// validation.
type TransactionPatch struct {
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Date        *time.Time `json:"date"`
	Notes       string     `json:"notes"`
}

// CategoryTotal is one row of the per-category expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

func isTransactionCategory(category string) bool {
	for _, c := range TransactionCategories {
		if c == category {
			return true
		}
	}
	return false
}

func isTransactionType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
