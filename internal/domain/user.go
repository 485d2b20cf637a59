/**
 * @description
 * This file defines the account-side domain models for the expense-service:
 * the User (a registered account with its financial settings) and the
 * Category entities embedded inside it. These structs are shared by the
 * store, application, and API layers.
 *
 * @notes
 * - The password is stored and compared verbatim. This is a deliberate,
 *   faithful port of the system's existing behavior and not suitable for a
 *   hardened deployment; the field is excluded from JSON so it never leaks
 *   into a response body.
 * - Categories live inside the user document (a JSONB column in Postgres),
 *   so every category mutation is a single-document write on the owning user.
 */

package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SupportedCurrencies is the set of ISO currency codes an account may use.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "INR", "CAD", "AUD"}

const (
	// DefaultCurrency is applied when registration omits a currency.
	DefaultCurrency = "USD"
	// DefaultCategoryColor is the fallback display color for a category
	// whose color has been cleared.
	DefaultCategoryColor = "#3B82F6"

	maxNameLength     = 50
	minPasswordLength = 8
)

// User represents a registered account and its financial profile.
// The struct maps to one row of the `users` table, with categories
// serialized into a single JSONB column.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	Currency      string     `json:"currency"`
	MonthlyBudget float64    `json:"monthlyBudget"`
	Categories    []Category `json:"categories"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Category is a user-defined budgeting bucket embedded in its owning User.
type Category struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Budget float64   `json:"budget"`
	Color  string    `json:"color"`
}

// Settings is the view returned by the settings endpoints.
type Settings struct {
	Currency      string     `json:"currency"`
	MonthlyBudget float64    `json:"monthlyBudget"`
	Categories    []Category `json:"categories"`
}

// Settings projects the user's settings view.
func (u *User) Settings() Settings {
	return Settings{
		Currency:      u.Currency,
		MonthlyBudget: u.MonthlyBudget,
		Categories:    u.Categories,
	}
}

// FindCategory returns the index of the category with the given id, or -1.
func (u *User) FindCategory(categoryID uuid.UUID) int {
	for i := range u.Categories {
		if u.Categories[i].ID == categoryID {
			return i
		}
	}
	return -1
}

// HasCategoryNamed reports whether the user already owns a category with the
// given name, compared case-insensitively.
func (u *User) HasCategoryNamed(name string) bool {
	for i := range u.Categories {
		if strings.EqualFold(u.Categories[i].Name, name) {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email the way the store expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RandomCategoryColor produces a random `#rrggbb` color for categories
// created without an explicit color.
func RandomCategoryColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

func isSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
