/**
 * @description
 * In-memory implementation of the `Repository` interface. It exists so the
 * application layer can be exercised without a database: the store handle is
 * injected at construction, and tests substitute this implementation for the
 * Postgres one. Semantics mirror the SQL backend, including sort order,
 * sentinel errors and aggregate results.
 */

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/domain"
)

// MemoryRepository is a mutex-guarded, map-backed Repository.
type MemoryRepository struct {
	mu           sync.Mutex
	users        map[uuid.UUID]domain.User
	emails       map[string]uuid.UUID
	transactions map[uuid.UUID]domain.Transaction
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:        make(map[uuid.UUID]domain.User),
		emails:       make(map[string]uuid.UUID),
		transactions: make(map[uuid.UUID]domain.Transaction),
	}
}

func cloneUser(u domain.User) domain.User {
	u.Categories = append([]domain.Category{}, u.Categories...)
	return u
}

func (r *MemoryRepository) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.emails[user.Email]; taken {
		return ErrEmailTaken
	}
	r.users[user.ID] = cloneUser(*user)
	r.emails[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) FindUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user = cloneUser(user)
	return &user, nil
}

func (r *MemoryRepository) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.emails[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := cloneUser(r.users[id])
	return &user, nil
}

func (r *MemoryRepository) UpdateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	existing.Name = user.Name
	existing.Currency = user.Currency
	existing.MonthlyBudget = user.MonthlyBudget
	existing.Categories = append([]domain.Category{}, user.Categories...)
	existing.UpdatedAt = time.Now()
	r.users[user.ID] = existing
	user.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *MemoryRepository) DeleteUser(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.emails, user.Email)
	delete(r.users, id)
	return nil
}

func (r *MemoryRepository) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[tx.ID] = *tx
	return nil
}

func (r *MemoryRepository) FindTransactionByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *MemoryRepository) UpdateTransaction(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.transactions[tx.ID]
	if !ok {
		return ErrTransactionNotFound
	}
	existing.Description = tx.Description
	existing.Amount = tx.Amount
	existing.Category = tx.Category
	existing.Type = tx.Type
	existing.Date = tx.Date
	existing.Notes = tx.Notes
	existing.UpdatedAt = time.Now()
	r.transactions[tx.ID] = existing
	tx.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *MemoryRepository) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return ErrTransactionNotFound
	}
	delete(r.transactions, id)
	return nil
}

// byUser snapshots the user's transactions sorted by date descending,
// creation time breaking ties. Callers must hold the mutex.
func (r *MemoryRepository) byUser(userID uuid.UUID) []domain.Transaction {
	items := []domain.Transaction{}
	for _, tx := range r.transactions {
		if tx.UserID == userID {
			items = append(items, tx)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (r *MemoryRepository) ListTransactionsByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.byUser(userID)
	if offset >= len(items) {
		return []domain.Transaction{}, nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryRepository) CountTransactionsByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byUser(userID))), nil
}

func (r *MemoryRepository) SumAmountsByType(_ context.Context, userID uuid.UUID) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var income, expenses float64
	for _, tx := range r.transactions {
		if tx.UserID != userID {
			continue
		}
		switch tx.Type {
		case domain.TypeIncome:
			income += tx.Amount
		case domain.TypeExpense:
			expenses += tx.Amount
		}
	}
	return income, expenses, nil
}

func (r *MemoryRepository) SumAmountsByTypeBetween(_ context.Context, userID uuid.UUID, from, to time.Time) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var income, expenses float64
	for _, tx := range r.transactions {
		if tx.UserID != userID || tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		switch tx.Type {
		case domain.TypeIncome:
			income += tx.Amount
		case domain.TypeExpense:
			expenses += tx.Amount
		}
	}
	return income, expenses, nil
}

func (r *MemoryRepository) SumExpensesByCategory(_ context.Context, userID uuid.UUID) ([]domain.CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]float64{}
	for _, tx := range r.transactions {
		if tx.UserID == userID && tx.Type == domain.TypeExpense {
			sums[tx.Category] += tx.Amount
		}
	}
	totals := make([]domain.CategoryTotal, 0, len(sums))
	for category, total := range sums {
		totals = append(totals, domain.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	return totals, nil
}
