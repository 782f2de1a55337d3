package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/budgetbook/internal/api"
	"github.com/kingrea/budgetbook/internal/logbook"
	"github.com/kingrea/budgetbook/internal/money"
)

const (
	expenseFieldAmount = iota
	expenseFieldDate
	expenseFieldCategory
	expenseFieldSubcategory
	expenseFieldPayee
	expenseFieldAccount
	expenseFieldNotes
)

type expenseFormModel struct {
	form    formCore
	backend Backend
	book    *logbook.Logbook
	id      int64

	subs []api.ExpenseSubCategory
}

func newExpenseForm(backend Backend, id int64, book *logbook.Logbook) *expenseFormModel {
	m := &expenseFormModel{backend: backend, book: book, id: id}
	m.form = newFormCore("expense", id != 0, screenExpenses)
	m.form.fields = []formField{
		textField("Amount", "12.50"),
		textField("Date", "YYYY-MM-DD"),
		selectField("Category", nil),
		selectField("Subcategory", nil),
		selectField("Payee", nil),
		selectField("Account", nil),
		textField("Notes", "optional"),
	}
	m.form.fields[expenseFieldNotes].optional = true
	m.form.validate = m.validate
	m.form.save = m.save
	m.form.onChange = m.fieldChanged
	return m
}

func (m *expenseFormModel) Init() tea.Cmd {
	backend, id, instance := m.backend, m.id, m.form.instance
	return tea.Batch(m.form.spin.Tick, func() tea.Msg {
		var (
			cats     []api.ExpenseCategory
			subs     []api.ExpenseSubCategory
			people   []api.Person
			accounts []api.Account
			expense  api.Expense
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			cats, err = backend.ListExpenseCategories(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			subs, err = backend.ListExpenseSubCategories(ctx, 0)
			return err
		})
		g.Go(func() error {
			var err error
			people, err = backend.ListPersons(ctx, lookupWindow)
			return err
		})
		g.Go(func() error {
			var err error
			accounts, err = backend.ListAccounts(ctx, lookupWindow)
			return err
		})
		if id != 0 {
			g.Go(func() error {
				var err error
				expense, err = backend.GetExpense(ctx, id)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return formSeededMsg{instance: instance, err: err}
		}
		return formSeededMsg{instance: instance, seed: func() {
			m.seed(cats, subs, people, accounts, expense)
		}}
	})
}

func (m *expenseFormModel) seed(cats []api.ExpenseCategory, subs []api.ExpenseSubCategory, people []api.Person, accounts []api.Account, expense api.Expense) {
	m.subs = subs

	catOpts := make([]selectOption, 0, len(cats))
	for _, c := range cats {
		catOpts = append(catOpts, selectOption{id: c.ID, label: c.Name})
	}
	m.form.fields[expenseFieldCategory].options = catOpts

	pplOpts := make([]selectOption, 0, len(people))
	for _, p := range people {
		pplOpts = append(pplOpts, selectOption{id: p.ID, label: p.Name})
	}
	m.form.fields[expenseFieldPayee].options = pplOpts

	accOpts := make([]selectOption, 0, len(accounts))
	for _, a := range accounts {
		accOpts = append(accOpts, selectOption{id: a.ID, label: a.Name})
	}
	m.form.fields[expenseFieldAccount].options = accOpts

	if m.id == 0 {
		m.form.fields[expenseFieldDate].input.SetValue(api.Today().String())
		m.rescopeSubcategories()
		return
	}

	m.form.fields[expenseFieldAmount].input.SetValue(expense.Amount.String())
	m.form.fields[expenseFieldDate].input.SetValue(expense.Date.String())
	m.form.fields[expenseFieldCategory].selectByID(expense.CategoryID)
	m.rescopeSubcategories()
	if expense.SubcategoryID != nil {
		m.form.fields[expenseFieldSubcategory].selectByID(*expense.SubcategoryID)
	}
	m.form.fields[expenseFieldPayee].selectByID(expense.PayeeID)
	m.form.fields[expenseFieldAccount].selectByID(expense.AccountID)
	m.form.fields[expenseFieldNotes].input.SetValue(expense.Notes)
}

// rescopeSubcategories rebuilds the subcategory choices for the selected
// category and drops any selection that no longer belongs to it.
func (m *expenseFormModel) rescopeSubcategories() {
	catID := m.form.fields[expenseFieldCategory].selectedOption().id
	opts := []selectOption{{id: 0, label: "None"}}
	if catID != 0 {
		for _, s := range m.subs {
			if s.ExpenseCategoryID == catID {
				opts = append(opts, selectOption{id: s.ID, label: s.Name})
			}
		}
	}
	m.form.fields[expenseFieldSubcategory].options = opts
	m.form.fields[expenseFieldSubcategory].selected = 0
}

func (m *expenseFormModel) fieldChanged(focus int) {
	if focus == expenseFieldCategory {
		m.rescopeSubcategories()
	}
}

func (m *expenseFormModel) validate() bool {
	ok := true
	amount, err := money.Parse(m.form.fields[expenseFieldAmount].input.Value())
	if err != nil || !amount.Positive() {
		m.form.fields[expenseFieldAmount].errMsg = "Amount must be a positive number."
		ok = false
	}
	if _, err := api.ParseDate(m.form.fields[expenseFieldDate].input.Value()); err != nil {
		m.form.fields[expenseFieldDate].errMsg = "Enter a date as YYYY-MM-DD."
		ok = false
	}
	if m.form.fields[expenseFieldCategory].selectedOption().id == 0 {
		m.form.fields[expenseFieldCategory].errMsg = "A category is required."
		ok = false
	}
	if m.form.fields[expenseFieldPayee].selectedOption().id == 0 {
		m.form.fields[expenseFieldPayee].errMsg = "A payee is required."
		ok = false
	}
	if m.form.fields[expenseFieldAccount].selectedOption().id == 0 {
		m.form.fields[expenseFieldAccount].errMsg = "An account is required."
		ok = false
	}
	return ok
}

func (m *expenseFormModel) save(ctx context.Context) error {
	amount, err := money.Parse(m.form.fields[expenseFieldAmount].input.Value())
	if err != nil {
		return err
	}
	date, err := api.ParseDate(m.form.fields[expenseFieldDate].input.Value())
	if err != nil {
		return err
	}
	input := api.ExpenseInput{
		Amount:     amount,
		CategoryID: m.form.fields[expenseFieldCategory].selectedOption().id,
		Date:       date,
		PayeeID:    m.form.fields[expenseFieldPayee].selectedOption().id,
		AccountID:  m.form.fields[expenseFieldAccount].selectedOption().id,
		Notes:      strings.TrimSpace(m.form.fields[expenseFieldNotes].input.Value()),
	}
	if sub := m.form.fields[expenseFieldSubcategory].selectedOption(); sub.id != 0 {
		input.SubcategoryID = &sub.id
	}
	if m.id == 0 {
		created, err := m.backend.CreateExpense(ctx, input)
		if err != nil {
			return err
		}
		m.book.Info("created expense %d (%s)", created.ID, created.Amount)
		return nil
	}
	if _, err := m.backend.UpdateExpense(ctx, m.id, input); err != nil {
		return err
	}
	m.book.Info("updated expense %d", m.id)
	return nil
}

func (m *expenseFormModel) Update(msg tea.Msg) tea.Cmd { return m.form.Update(msg) }
func (m *expenseFormModel) View() string               { return m.form.View() }
func (m *expenseFormModel) setSize(w, h int)           { m.form.setSize(w, h) }
