// internal/api/types.go
//
// Wire types for the budgeting backend. IDs and audit timestamps are
// server-assigned; calendar dates travel as YYYY-MM-DD, audit fields as
// RFC3339 timestamps.

package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/budgetbook/internal/money"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("api: parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time exposes the date at midnight UTC.
func (d Date) Time() time.Time { return d.t }

// String renders YYYY-MM-DD, or the empty string when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// Equal reports whether both values name the same calendar day.
func (d Date) Equal(o Date) bool { return d.String() == o.String() }

// MarshalJSON emits "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and full timestamps, keeping the
// date part. Backends differ on which one they return for expense dates.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.t = time.Time{}
		return nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Person is someone who can own accounts and be an expense payee.
type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PersonInput is the create/update payload for a person. Updates are
// full replacements; there is no partial patch.
type PersonInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Account is a financial account with one or two owners.
type Account struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Currency       string       `json:"currency"`
	AccountType    string       `json:"account_type"`
	InitialBalance money.Amount `json:"initial_balance"`
	PrimaryOwnerID int64        `json:"primary_owner_id"`
	SecondOwnerID  *int64       `json:"second_owner_id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// AccountInput is the create/update payload for an account. A nil
// SecondOwnerID serializes as an explicit null.
type AccountInput struct {
	Name           string       `json:"name"`
	Currency       string       `json:"currency"`
	AccountType    string       `json:"account_type"`
	InitialBalance money.Amount `json:"initial_balance"`
	PrimaryOwnerID int64        `json:"primary_owner_id"`
	SecondOwnerID  *int64       `json:"second_owner_id"`
}

// Expense is a single recorded expense.
type Expense struct {
	ID            int64        `json:"id"`
	Amount        money.Amount `json:"amount"`
	CategoryID    int64        `json:"category_id"`
	SubcategoryID *int64       `json:"subcategory_id,omitempty"`
	Date          Date         `json:"date"`
	PayeeID       int64        `json:"payee_id"`
	AccountID     int64        `json:"account_id"`
	Notes         string       `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ExpenseInput is the create/update payload for an expense. Optional
// fields are omitted entirely when unset.
type ExpenseInput struct {
	Amount        money.Amount `json:"amount"`
	CategoryID    int64        `json:"category_id"`
	SubcategoryID *int64       `json:"subcategory_id,omitempty"`
	Date          Date         `json:"date"`
	PayeeID       int64        `json:"payee_id"`
	AccountID     int64        `json:"account_id"`
	Notes         string       `json:"notes,omitempty"`
}

// ExpenseCategory is a top-level expense grouping.
type ExpenseCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpenseSubCategory refines a category; the parent reference is required.
type ExpenseSubCategory struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ExpenseCategoryID int64     `json:"expense_category_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PageWindow selects an offset/limit slice of a listing. The backend
// never reports a total count; a short page signals the last page.
type PageWindow struct {
	Skip  int
	Limit int
}

// ExpenseFilter narrows an expense listing. Zero values are omitted from
// the request; all matches are exact, the date range is inclusive.
type ExpenseFilter struct {
	CategoryID    int64
	SubcategoryID int64
	PayeeID       int64
	AccountID     int64
	StartDate     Date
	EndDate       Date
}
