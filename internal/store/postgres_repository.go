/**
 * @description
 * PostgreSQL implementation of the `Repository` interface. Users keep their
 * embedded categories in a JSONB column so each user row behaves like a
 * single document; transactions live in their own table keyed by user_id.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver and connection pooling.
 * - internal/domain: domain models used for data transfer.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spendwise/expense-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tables and indexes the service needs. It is
// idempotent and safe to run at every startup.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            currency TEXT NOT NULL DEFAULT 'USD',
            monthly_budget DOUBLE PRECISION NOT NULL DEFAULT 0,
            categories JSONB NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL,
            description TEXT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            category TEXT NOT NULL,
            type TEXT NOT NULL,
            date TIMESTAMPTZ NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date DESC);
        CREATE INDEX IF NOT EXISTS idx_transactions_user_category ON transactions (user_id, category);
    `)
	return err
}

// CreateUser inserts a new user. A unique violation on the email column is
// reported as ErrEmailTaken without any row being written.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	categories, err := json.Marshal(user.Categories)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (id, name, email, password, currency, monthly_budget, categories, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Password,
		user.Currency, user.MonthlyBudget, categories,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *PostgresRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, password, currency, monthly_budget, categories, created_at, updated_at
		FROM users WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// FindUserByEmail retrieves a user by their normalized email.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password, currency, monthly_budget, categories, created_at, updated_at
		FROM users WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var categories []byte
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.Currency, &user.MonthlyBudget, &categories,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(categories, &user.Categories); err != nil {
		return nil, err
	}
	if user.Categories == nil {
		user.Categories = []domain.Category{}
	}
	return &user, nil
}

// UpdateUser rewrites the mutable part of a user row (name, currency,
// monthly budget and the embedded categories) as one atomic write.
// The email is immutable through this path.
func (r *PostgresRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	categories, err := json.Marshal(user.Categories)
	if err != nil {
		return err
	}
	query := `
		UPDATE users
		SET name = $2, currency = $3, monthly_budget = $4, categories = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, query, user.ID, user.Name, user.Currency, user.MonthlyBudget, categories).Scan(&user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// DeleteUser removes a user row. The embedded categories go with it;
// transactions referencing the user are left in place, matching the loose
// coupling between the two record types.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateTransaction inserts a new transaction record.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, description, amount, category, type, date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		tx.ID, tx.UserID, tx.Description, tx.Amount,
		tx.Category, tx.Type, tx.Date, tx.Notes,
		tx.CreatedAt, tx.UpdatedAt,
	)
	return err
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PostgresRepository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, category, type, date, notes, created_at, updated_at
		FROM transactions WHERE id = $1
	`
	var tx domain.Transaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.Description, &tx.Amount,
		&tx.Category, &tx.Type, &tx.Date, &tx.Notes,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// UpdateTransaction replaces the mutable fields of a transaction wholesale.
func (r *PostgresRepository) UpdateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $2, amount = $3, category = $4, type = $5, date = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, tx.ID, tx.Description, tx.Amount, tx.Category, tx.Type, tx.Date, tx.Notes).Scan(&tx.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrTransactionNotFound
		}
		return err
	}
	return nil
}

// DeleteTransaction removes a transaction row.
func (r *PostgresRepository) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ListTransactionsByUser returns a page of the user's transactions ordered by
// date descending. Rows sharing a date are ordered by creation time so pages
// remain stable.
func (r *PostgresRepository) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, description, amount, category, type, date, notes, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Description, &tx.Amount,
			&tx.Category, &tx.Type, &tx.Date, &tx.Notes,
			&tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// CountTransactionsByUser returns the total number of transactions for a user.
func (r *PostgresRepository) CountTransactionsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

// SumAmountsByType totals income and expense amounts for a user in one scan.
func (r *PostgresRepository) SumAmountsByType(ctx context.Context, userID uuid.UUID) (float64, float64, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
	`
	var income, expenses float64
	err := r.db.QueryRow(ctx, query, userID).Scan(&income, &expenses)
	return income, expenses, err
}

// SumAmountsByTypeBetween totals income and expense amounts for transactions
// dated within [from, to].
func (r *PostgresRepository) SumAmountsByTypeBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, float64, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`
	var income, expenses float64
	err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&income, &expenses)
	return income, expenses, err
}

// SumExpensesByCategory groups the user's expenses by category, ordered by
// total descending. Tie order between equal totals is not defined.
func (r *PostgresRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID) ([]domain.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		GROUP BY category
		ORDER BY total DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
