package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/domain"
)

func addDated(t *testing.T, s *Service, userID uuid.UUID, txType, category string, amount float64, date time.Time) {
	t.Helper()
	mustAddTransaction(t, s, CreateTransactionRequest{
		UserID:      userID,
		Description: category + " entry",
		Amount:      amount,
		Category:    category,
		Type:        txType,
		Date:        &date,
	})
}

func TestGetBalanceEmptyAccount(t *testing.T) {
	s := newTestService()
	balance, err := s.GetBalance(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.TotalIncome != 0 || balance.TotalExpenses != 0 || balance.Balance != 0 {
		t.Fatalf("expected all zeros, got %+v", balance)
	}
}

func TestGetBalance(t *testing.T) {
	s := newTestService()
	userID := uuid.New()
	now := time.Now()
	addDated(t, s, userID, domain.TypeIncome, "Income", 1000, now)
	addDated(t, s, userID, domain.TypeExpense, "Food", 300, now)
	addDated(t, s, userID, domain.TypeExpense, "Shopping", 200, now)

	balance, err := s.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.TotalIncome != 1000 {
		t.Fatalf("expected totalIncome 1000, got %v", balance.TotalIncome)
	}
	if balance.TotalExpenses != 500 {
		t.Fatalf("expected totalExpenses 500, got %v", balance.TotalExpenses)
	}
	if balance.Balance != 500 {
		t.Fatalf("expected balance 500, got %v", balance.Balance)
	}
}

func TestGetMonthlySummary(t *testing.T) {
	s := newTestService()
	userID := uuid.New()
	now := time.Now()
	addDated(t, s, userID, domain.TypeIncome, "Income", 2000, now)
	addDated(t, s, userID, domain.TypeExpense, "Food", 500, now)
	// Dated well outside the current month; must not count.
	addDated(t, s, userID, domain.TypeExpense, "Food", 9999, now.AddDate(0, -2, 0))

	summary, err := s.GetMonthlySummary(context.Background(), userID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.MonthlyIncome != 2000 || summary.MonthlyExpenses != 500 {
		t.Fatalf("unexpected month totals: %+v", summary)
	}
	if summary.MonthlySavings != 1500 {
		t.Fatalf("expected monthlySavings 1500, got %v", summary.MonthlySavings)
	}
	if summary.SavingsRate != 75.0 {
		t.Fatalf("expected savingsRate 75.0, got %v", summary.SavingsRate)
	}
}

func TestGetMonthlySummaryZeroIncome(t *testing.T) {
	s := newTestService()
	userID := uuid.New()
	addDated(t, s, userID, domain.TypeExpense, "Food", 500, time.Now())

	summary, err := s.GetMonthlySummary(context.Background(), userID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.SavingsRate != 0 {
		t.Fatalf("expected savingsRate 0 with no income, got %v", summary.SavingsRate)
	}
	if summary.MonthlySavings != -500 {
		t.Fatalf("expected negative monthlySavings, got %v", summary.MonthlySavings)
	}
}

func TestGetMonthlySummaryCanGoNegative(t *testing.T) {
	s := newTestService()
	userID := uuid.New()
	now := time.Now()
	addDated(t, s, userID, domain.TypeIncome, "Income", 1000, now)
	addDated(t, s, userID, domain.TypeExpense, "Shopping", 1500, now)

	summary, err := s.GetMonthlySummary(context.Background(), userID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.SavingsRate != -50.0 {
		t.Fatalf("expected savingsRate -50.0, got %v", summary.SavingsRate)
	}
}

func TestGetCategoryBreakdown(t *testing.T) {
	s := newTestService()
	userID := uuid.New()
	now := time.Now()
	addDated(t, s, userID, domain.TypeExpense, "Food", 100, now)
	addDated(t, s, userID, domain.TypeExpense, "Food", 50, now)
	addDated(t, s, userID, domain.TypeExpense, "Transportation", 30, now)
	// Income is excluded from the breakdown.
	addDated(t, s, userID, domain.TypeIncome, "Income", 5000, now)

	breakdown, err := s.GetCategoryBreakdown(context.Background(), userID)
	if err != nil {
		t.Fatalf("breakdown failed: %v", err)
	}
	want := []domain.CategoryTotal{
		{Category: "Food", Total: 150},
		{Category: "Transportation", Total: 30},
	}
	if len(breakdown) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(breakdown), breakdown)
	}
	for i := range want {
		if breakdown[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], breakdown[i])
		}
	}
}

func TestGetDashboardStatsCombinesAllThree(t *testing.T) {
	s := newTestService()
	userID := uuid.New()
	now := time.Now()
	addDated(t, s, userID, domain.TypeIncome, "Income", 2000, now)
	addDated(t, s, userID, domain.TypeExpense, "Food", 500, now)

	stats, err := s.GetDashboardStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Balance.Balance != 1500 {
		t.Fatalf("expected balance 1500, got %v", stats.Balance.Balance)
	}
	if stats.SavingsRate != 75.0 {
		t.Fatalf("expected savingsRate 75.0, got %v", stats.SavingsRate)
	}
	if len(stats.CategoryExpenses) != 1 || stats.CategoryExpenses[0].Category != "Food" {
		t.Fatalf("unexpected category breakdown: %+v", stats.CategoryExpenses)
	}
}

func TestGetDashboardStatsEmptyAccount(t *testing.T) {
	s := newTestService()
	stats, err := s.GetDashboardStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Balance.Balance != 0 || stats.SavingsRate != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if len(stats.CategoryExpenses) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", stats.CategoryExpenses)
	}
}
