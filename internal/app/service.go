/**
 * @description
 * This file contains the account-side business logic for the expense-service.
 * The `Service` struct orchestrates registration, login, profile and settings
 * management, and the category sub-operations on the owning account. It
 * coordinates the injected repository and the event producer.
 *
 * @notes
 * - Passwords are compared with plain string equality, faithfully preserving
 *   the behavior of the system this service ports. A real deployment needs a
 *   hashing scheme; switching would change login timing and error surfaces,
 *   so it is left to an explicit product decision.
 * - A lookup miss and a wrong password both surface as ErrInvalidCredentials
 *   so callers cannot distinguish the two.
 */

package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/domain"
	"github.com/spendwise/expense-service/internal/store"
	"github.com/spendwise/expense-service/pkg/rabbitmq"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)

const loginRateLimitWindow = time.Minute

// RateLimiter consumes one unit of a per-subject limit and reports the count
// seen inside the current window. A nil limiter never limits.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// Service provides the core business logic for accounts and transactions.
type Service struct {
	repo          store.Repository
	eventProducer rabbitmq.Publisher
	eventExchange string
	loginLimiter  RateLimiter
	loginLimit    int
}

// NewService creates a new service instance. The producer may be nil when the
// broker is unavailable; the limiter may be nil when redis is not configured.
func NewService(repo store.Repository, producer rabbitmq.Publisher, eventExchange string, limiter RateLimiter, loginLimitPerMinute int) *Service {
	return &Service{
		repo:          repo,
		eventProducer: producer,
		eventExchange: eventExchange,
		loginLimiter:  limiter,
		loginLimit:    loginLimitPerMinute,
	}
}

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePatch carries the partial profile update; nil fields stay untouched.
type ProfilePatch struct {
	Name          *string  `json:"name"`
	Currency      *string  `json:"currency"`
	MonthlyBudget *float64 `json:"monthlyBudget"`
}

// CategoryPatch carries the partial category update; nil fields stay untouched.
type CategoryPatch struct {
	Name   *string  `json:"name"`
	Budget *float64 `json:"budget"`
	Color  *string  `json:"color"`
}

// Register creates a new account with an empty category list. Registration
// fails without mutating state when the email is already taken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	now := time.Now()
	user := &domain.User{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      domain.NormalizeEmail(req.Email),
		Password:   req.Password,
		Currency:   domain.DefaultCurrency,
		Categories: []domain.Category{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := domain.ValidateUser(user); err != nil {
		return nil, err
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, "user.registered", map[string]interface{}{
		"userId":    user.ID,
		"email":     user.Email,
		"timestamp": user.CreatedAt,
	})
	return user, nil
}

// Login authenticates an account by exact email and password match.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	if s.loginLimiter != nil && s.loginLimit > 0 {
		count, _, err := s.loginLimiter.ConsumeRateLimit(ctx, "login", email, s.loginLimit, loginRateLimitWindow)
		if err != nil {
			// A broken limiter must not lock everyone out.
			log.Printf("level=warn component=app msg=\"login rate limiter unavailable\" err=%v", err)
		} else if count > s.loginLimit {
			return nil, ErrTooManyLoginAttempts
		}
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile returns the account for the given id.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, id)
}

// UpdateProfile applies a partial update to name, currency and monthly
// budget. Email and categories are not reachable through this path.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Currency != nil {
		user.Currency = *patch.Currency
	}
	if patch.MonthlyBudget != nil {
		user.MonthlyBudget = *patch.MonthlyBudget
	}
	if err := domain.ValidateUser(user); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetSettings returns the currency, monthly budget and categories view.
func (s *Service) GetSettings(ctx context.Context, id uuid.UUID) (*domain.Settings, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settings := user.Settings()
	return &settings, nil
}

// UpdateSettings applies a partial update to currency and monthly budget.
func (s *Service) UpdateSettings(ctx context.Context, id uuid.UUID, currency *string, monthlyBudget *float64) (*domain.Settings, error) {
	user, err := s.UpdateProfile(ctx, id, ProfilePatch{Currency: currency, MonthlyBudget: monthlyBudget})
	if err != nil {
		return nil, err
	}
	settings := user.Settings()
	return &settings, nil
}

// DeleteAccount removes the account and, with it, every embedded category.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUser(ctx, id)
}

// ListCategories returns the account's categories in their stored order.
func (s *Service) ListCategories(ctx context.Context, id uuid.UUID) ([]domain.Category, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Categories, nil
}

// AddCategory appends a category to the account. Names are unique within the
// account ignoring case; a missing color is filled with a random one.
func (s *Service) AddCategory(ctx context.Context, id uuid.UUID, name string, budget float64, color string) ([]domain.Category, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category := domain.Category{
		ID:     uuid.New(),
		Name:   name,
		Budget: budget,
		Color:  color,
	}
	if err := domain.ValidateCategory(&category); err != nil {
		return nil, err
	}
	if user.HasCategoryNamed(name) {
		return nil, ErrDuplicateCategory
	}
	if category.Color == "" {
		category.Color = domain.RandomCategoryColor()
	}
	user.Categories = append(user.Categories, category)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Categories, nil
}

// UpdateCategory applies a partial update to one of the account's categories.
func (s *Service) UpdateCategory(ctx context.Context, id, categoryID uuid.UUID, patch CategoryPatch) ([]domain.Category, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	idx := user.FindCategory(categoryID)
	if idx < 0 {
		return nil, ErrCategoryNotFound
	}
	category := user.Categories[idx]
	if patch.Name != nil {
		for i := range user.Categories {
			if i != idx && strings.EqualFold(user.Categories[i].Name, *patch.Name) {
				return nil, ErrDuplicateCategory
			}
		}
		category.Name = *patch.Name
	}
	if patch.Budget != nil {
		category.Budget = *patch.Budget
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	if category.Color == "" {
		category.Color = domain.DefaultCategoryColor
	}
	if err := domain.ValidateCategory(&category); err != nil {
		return nil, err
	}
	user.Categories[idx] = category
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Categories, nil
}

// RemoveCategory deletes one of the account's categories.
func (s *Service) RemoveCategory(ctx context.Context, id, categoryID uuid.UUID) ([]domain.Category, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	idx := user.FindCategory(categoryID)
	if idx < 0 {
		return nil, ErrCategoryNotFound
	}
	user.Categories = append(user.Categories[:idx], user.Categories[idx+1:]...)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Categories, nil
}

// publish sends an event best-effort; delivery failures never fail the
// operation that produced it.
func (s *Service) publish(ctx context.Context, routingKey string, body interface{}) {
	if s.eventProducer == nil {
		return
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, routingKey, body); err != nil {
		log.Printf("level=warn component=app msg=\"event publish failed\" routing_key=%s err=%v", routingKey, err)
	}
}
