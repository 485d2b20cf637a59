/**
 * @description
 * Transaction-side business logic: create, read, update, delete, pagination
 * and the recent-transactions view. Updates carry full-overwrite semantics:
 * the patch replaces every mutable field, so omitted fields are reset to
 * their defaults rather than preserved.
 */

package app

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/domain"
)

const (
	// DefaultPageSize is applied when a list request omits the limit.
	DefaultPageSize = 10
	// DefaultRecentCount is the number of transactions in the recent view.
	DefaultRecentCount = 5
)

// CreateTransactionRequest carries the fields accepted when recording an
// income or expense.
type CreateTransactionRequest struct {
	UserID      uuid.UUID  `json:"userId"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Date        *time.Time `json:"date"`
	Notes       string     `json:"notes"`
}

// TransactionPage is one page of an account's transaction history.
type TransactionPage struct {
	Transactions []domain.Transaction `json:"expenses"`
	Total        int64                `json:"total"`
	TotalPages   int                  `json:"totalPages"`
	CurrentPage  int                  `json:"currentPage"`
}

// AddTransaction validates and stores a new transaction. The owning account
// is not checked for existence; the reference is deliberately loose.
func (s *Service) AddTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error) {
	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	tx := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Date:        date,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := domain.ValidateTransaction(tx); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	s.publish(ctx, "transaction.created", tx)
	return tx, nil
}

// GetTransaction returns a single transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.repo.FindTransactionByID(ctx, id)
}

// UpdateTransaction replaces the mutable fields of a transaction wholesale
// from the patch. A patch without notes clears existing notes; a patch
// without a date resets the date to its default, the current time.
func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, patch domain.TransactionPatch) (*domain.Transaction, error) {
	tx, err := s.repo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.Description = patch.Description
	tx.Amount = patch.Amount
	tx.Category = patch.Category
	tx.Type = patch.Type
	if patch.Date != nil {
		tx.Date = *patch.Date
	} else {
		tx.Date = time.Now()
	}
	tx.Notes = patch.Notes
	if err := domain.ValidateTransaction(tx); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	s.publish(ctx, "transaction.updated", tx)
	return tx, nil
}

// DeleteTransaction removes a transaction by id.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "transaction.deleted", map[string]interface{}{"id": id})
	return nil
}

// ListTransactions returns one page of the account's transactions ordered by
// date descending, along with the total count and page count. Page numbers
// start at 1; non-positive page or limit values fall back to the defaults.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) (*TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	items, err := s.repo.ListTransactionsByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TransactionPage{
		Transactions: items,
		Total:        total,
		TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:  page,
	}, nil
}

// RecentTransactions returns the account's n most recent transactions by
// date descending.
func (s *Service) RecentTransactions(ctx context.Context, userID uuid.UUID, n int) ([]domain.Transaction, error) {
	if n < 1 {
		n = DefaultRecentCount
	}
	return s.repo.ListTransactionsByUser(ctx, userID, n, 0)
}
