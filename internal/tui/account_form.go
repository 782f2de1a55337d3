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
	accountFieldName = iota
	accountFieldCurrency
	accountFieldType
	accountFieldBalance
	accountFieldPrimary
	accountFieldSecond
)

var currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY"}

var accountTypes = []selectOption{
	{code: "checking", label: "Checking"},
	{code: "savings", label: "Savings"},
	{code: "credit", label: "Credit"},
	{code: "investment", label: "Investment"},
	{code: "loan", label: "Loan"},
	{code: "other", label: "Other"},
}

type accountFormModel struct {
	form    formCore
	backend Backend
	book    *logbook.Logbook
	id      int64
}

func newAccountForm(backend Backend, id int64, book *logbook.Logbook) *accountFormModel {
	m := &accountFormModel{backend: backend, book: book, id: id}
	currencies := make([]selectOption, len(currencyCodes))
	for i, c := range currencyCodes {
		currencies[i] = selectOption{code: c, label: c}
	}
	m.form = newFormCore("account", id != 0, screenAccounts)
	m.form.fields = []formField{
		textField("Name", "Joint checking"),
		selectField("Currency", currencies),
		selectField("Type", accountTypes),
		textField("Initial balance", "0.00"),
		selectField("Primary owner", nil),
		selectField("Second owner", nil),
	}
	m.form.validate = m.validate
	m.form.save = m.save
	if id == 0 {
		m.form.fields[accountFieldBalance].input.SetValue("0.00")
	}
	return m
}

// Init loads the owner choices, and the account itself when editing,
// in parallel. The form stays in its loading phase until both land.
func (m *accountFormModel) Init() tea.Cmd {
	backend, id, instance := m.backend, m.id, m.form.instance
	return tea.Batch(m.form.spin.Tick, func() tea.Msg {
		var (
			people  []api.Person
			account api.Account
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			people, err = backend.ListPersons(ctx, lookupWindow)
			return err
		})
		if id != 0 {
			g.Go(func() error {
				var err error
				account, err = backend.GetAccount(ctx, id)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return formSeededMsg{instance: instance, err: err}
		}
		return formSeededMsg{instance: instance, seed: func() {
			m.seed(people, account)
		}}
	})
}

func (m *accountFormModel) seed(people []api.Person, account api.Account) {
	primary := make([]selectOption, 0, len(people))
	second := []selectOption{{id: 0, label: "No second owner"}}
	for _, p := range people {
		primary = append(primary, selectOption{id: p.ID, label: p.Name})
		second = append(second, selectOption{id: p.ID, label: p.Name})
	}
	m.form.fields[accountFieldPrimary].options = primary
	m.form.fields[accountFieldSecond].options = second

	if m.id == 0 {
		return
	}
	m.form.fields[accountFieldName].input.SetValue(account.Name)
	m.form.fields[accountFieldCurrency].selectByCode(account.Currency)
	m.form.fields[accountFieldType].selectByCode(account.AccountType)
	m.form.fields[accountFieldBalance].input.SetValue(account.InitialBalance.String())
	m.form.fields[accountFieldPrimary].selectByID(account.PrimaryOwnerID)
	if account.SecondOwnerID != nil {
		m.form.fields[accountFieldSecond].selectByID(*account.SecondOwnerID)
	}
}

func (m *accountFormModel) validate() bool {
	ok := true
	name := strings.TrimSpace(m.form.fields[accountFieldName].input.Value())
	if len(name) < 2 {
		m.form.fields[accountFieldName].errMsg = "Name must be at least 2 characters."
		ok = false
	}
	if _, err := money.Parse(m.form.fields[accountFieldBalance].input.Value()); err != nil {
		m.form.fields[accountFieldBalance].errMsg = "Enter a valid amount."
		ok = false
	}
	primary := m.form.fields[accountFieldPrimary].selectedOption()
	if primary.id == 0 {
		m.form.fields[accountFieldPrimary].errMsg = "A primary owner is required."
		ok = false
	}
	second := m.form.fields[accountFieldSecond].selectedOption()
	if second.id != 0 && second.id == primary.id {
		m.form.fields[accountFieldSecond].errMsg = "Second owner must differ from the primary owner."
		ok = false
	}
	return ok
}

func (m *accountFormModel) save(ctx context.Context) error {
	balance, err := money.Parse(m.form.fields[accountFieldBalance].input.Value())
	if err != nil {
		return err
	}
	input := api.AccountInput{
		Name:           strings.TrimSpace(m.form.fields[accountFieldName].input.Value()),
		Currency:       m.form.fields[accountFieldCurrency].selectedOption().code,
		AccountType:    m.form.fields[accountFieldType].selectedOption().code,
		InitialBalance: balance,
		PrimaryOwnerID: m.form.fields[accountFieldPrimary].selectedOption().id,
	}
	if second := m.form.fields[accountFieldSecond].selectedOption(); second.id != 0 {
		input.SecondOwnerID = &second.id
	}
	if m.id == 0 {
		created, err := m.backend.CreateAccount(ctx, input)
		if err != nil {
			return err
		}
		m.book.Info("created account %d (%s)", created.ID, created.Name)
		return nil
	}
	if _, err := m.backend.UpdateAccount(ctx, m.id, input); err != nil {
		return err
	}
	m.book.Info("updated account %d", m.id)
	return nil
}

func (m *accountFormModel) Update(msg tea.Msg) tea.Cmd { return m.form.Update(msg) }
func (m *accountFormModel) View() string               { return m.form.View() }
func (m *accountFormModel) setSize(w, h int)           { m.form.setSize(w, h) }
