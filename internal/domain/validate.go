/**
 * @description
 * Explicit field validation for the domain entities. The original system
 * declared these constraints on its storage schemas; here each entity gets a
 * validation function that checks every constraint and reports all violations
 * at once through a structured ValidationError.
 */

package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every constraint violated by an entity.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateUser checks a user against its field constraints. The email is
// expected to be normalized (lowercased, trimmed) before the call.
func ValidateUser(u *User) error {
	v := &ValidationError{}
	if strings.TrimSpace(u.Name) == "" {
		v.add("name", "Please add a name")
	} else if len(u.Name) > maxNameLength {
		v.add("name", fmt.Sprintf("Name cannot be more than %d characters", maxNameLength))
	}
	if u.Email == "" {
		v.add("email", "Please add an email")
	} else if !emailPattern.MatchString(u.Email) {
		v.add("email", "Please add a valid email")
	}
	if u.Password == "" {
		v.add("password", "Please add a password")
	} else if len(u.Password) < minPasswordLength {
		v.add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if !isSupportedCurrency(u.Currency) {
		v.add("currency", fmt.Sprintf("Currency must be one of %s", strings.Join(SupportedCurrencies, ", ")))
	}
	if u.MonthlyBudget < 0 {
		v.add("monthlyBudget", "Monthly budget cannot be negative")
	}
	return v.orNil()
}

// ValidateCategory checks one embedded category.
func ValidateCategory(c *Category) error {
	v := &ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		v.add("name", "Please add a category name")
	}
	return v.orNil()
}

// ValidateTransaction checks a transaction against its field constraints.
func ValidateTransaction(t *Transaction) error {
	v := &ValidationError{}
	if t.UserID == uuid.Nil {
		v.add("userId", "Please provide a user")
	}
	if strings.TrimSpace(t.Description) == "" {
		v.add("description", "Please add a description")
	} else if len(t.Description) > maxDescriptionLength {
		v.add("description", fmt.Sprintf("Description cannot be more than %d characters", maxDescriptionLength))
	}
	if t.Amount <= 0 {
		v.add("amount", "Amount must be greater than 0")
	}
	if t.Category == "" {
		v.add("category", "Please select a category")
	} else if !isTransactionCategory(t.Category) {
		v.add("category", fmt.Sprintf("Category must be one of %s", strings.Join(TransactionCategories, ", ")))
	}
	if t.Type == "" {
		v.add("type", "Please select a type")
	} else if !isTransactionType(t.Type) {
		v.add("type", "Type must be either income or expense")
	}
	if len(t.Notes) > maxNotesLength {
		v.add("notes", fmt.Sprintf("Notes cannot be more than %d characters", maxNotesLength))
	}
	return v.orNil()
}
