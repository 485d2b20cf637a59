/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the expense-service performs. The application layer depends only on
 * this interface, so the Postgres implementation can be swapped for the
 * in-memory one in tests.
 *
 * @notes
 * - The aggregate methods (SumAmountsByType, SumExpensesByCategory, ...) are
 *   the query-pushdown surface for the reporting engine: each backend decides
 *   whether grouping happens in SQL or in a plain scan, but the grouping and
 *   summation semantics are identical.
 * - Reads issued by different methods carry no shared snapshot: dashboard
 *   aggregation composes three independent queries and tolerates writes
 *   landing between them.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/domain"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("user already exists with this email")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User and category methods. Categories are embedded in the user record,
	// so category mutations go through UpdateUser as single-document writes.
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Transaction methods.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	CountTransactionsByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Aggregate read methods backing the reporting engine.
	SumAmountsByType(ctx context.Context, userID uuid.UUID) (income, expenses float64, err error)
	SumAmountsByTypeBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (income, expenses float64, err error)
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID) ([]domain.CategoryTotal, error)
}
