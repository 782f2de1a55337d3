package tui

import (
	"context"

	"github.com/kingrea/budgetbook/internal/api"
)

// Backend is the slice of the API client the views depend on. Tests
// substitute fakes; production wires *api.Client.
type Backend interface {
	ListPersons(ctx context.Context, window api.PageWindow) ([]api.Person, error)
	GetPerson(ctx context.Context, id int64) (api.Person, error)
	CreatePerson(ctx context.Context, input api.PersonInput) (api.Person, error)
	UpdatePerson(ctx context.Context, id int64, input api.PersonInput) (api.Person, error)
	DeletePerson(ctx context.Context, id int64) error

	ListAccounts(ctx context.Context, window api.PageWindow) ([]api.Account, error)
	GetAccount(ctx context.Context, id int64) (api.Account, error)
	CreateAccount(ctx context.Context, input api.AccountInput) (api.Account, error)
	UpdateAccount(ctx context.Context, id int64, input api.AccountInput) (api.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	ListExpenses(ctx context.Context, window api.PageWindow, filter api.ExpenseFilter) ([]api.Expense, error)
	GetExpense(ctx context.Context, id int64) (api.Expense, error)
	CreateExpense(ctx context.Context, input api.ExpenseInput) (api.Expense, error)
	UpdateExpense(ctx context.Context, id int64, input api.ExpenseInput) (api.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error

	ListExpenseCategories(ctx context.Context) ([]api.ExpenseCategory, error)
	ListExpenseSubCategories(ctx context.Context, categoryID int64) ([]api.ExpenseSubCategory, error)
}

var _ Backend = (*api.Client)(nil)

// lookupWindow is the window sent when a screen needs a whole collection
// for name lookups or select options. Sending no window at all would
// leave the page size to the backend's default, silently truncating the
// choices, so the full universe is requested explicitly.
var lookupWindow = api.PageWindow{Limit: 1000}
