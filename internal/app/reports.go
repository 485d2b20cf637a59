/**
 * @description
 * The reporting engine: pure read-side aggregation over the transaction
 * store, scoped to one account. Grouping and summation are pushed down to
 * the repository; this layer composes the results and derives savings math.
 *
 * @notes
 * - DashboardStats issues three independent reads with no shared snapshot.
 *   Writes landing between them can produce a slightly inconsistent combined
 *   view, which is accepted for this domain.
 */

package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/domain"
)

// Balance is the all-time income/expense totals for an account.
type Balance struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
}

// MonthlySummary covers the current calendar month, evaluated at call time.
type MonthlySummary struct {
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	MonthlySavings  float64 `json:"monthlySavings"`
	SavingsRate     float64 `json:"savingsRate"`
}

// DashboardStats is the combined balance + monthly summary + category
// breakdown view for an account.
type DashboardStats struct {
	Balance
	MonthlySummary
	CategoryExpenses []domain.CategoryTotal `json:"categoryExpenses"`
}

// GetBalance sums all income and all expenses for the account. An account
// with no transactions reports zeros across the board.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	income, expenses, err := s.repo.SumAmountsByType(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income - expenses,
	}, nil
}

// monthBounds returns the first and last instant of the month containing now.
func monthBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// GetMonthlySummary aggregates the current calendar month. The savings rate
// is a percentage and may be negative; it is zero whenever monthly income is
// zero, regardless of expenses.
func (s *Service) GetMonthlySummary(ctx context.Context, userID uuid.UUID) (*MonthlySummary, error) {
	from, to := monthBounds(time.Now())
	income, expenses, err := s.repo.SumAmountsByTypeBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	summary := &MonthlySummary{
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		MonthlySavings:  income - expenses,
	}
	if income > 0 {
		summary.SavingsRate = (income - expenses) / income * 100
	}
	return summary, nil
}

// GetCategoryBreakdown groups the account's expenses by category, sorted by
// total descending. The order of equal totals is not defined.
func (s *Service) GetCategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]domain.CategoryTotal, error) {
	return s.repo.SumExpensesByCategory(ctx, userID)
}

// GetDashboardStats combines the three reports, each computed from a fresh
// read of the store.
func (s *Service) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.GetMonthlySummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.GetCategoryBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Balance:          *balance,
		MonthlySummary:   *summary,
		CategoryExpenses: breakdown,
	}, nil
}
