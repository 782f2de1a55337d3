// internal/tui/expenses_list.go
//
// The expense page layers a month window, a four-way filter panel and a
// running page total on top of the shared list lifecycle. Lookup tables
// for category, payee and account names load once when the screen
// mounts; fetch closures capture the maps by reference, and the maps are
// replaced wholesale rather than mutated, so a closure running on
// another goroutine always sees a consistent snapshot.

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/budgetbook/internal/api"
	"github.com/kingrea/budgetbook/internal/config"
	"github.com/kingrea/budgetbook/internal/logbook"
	"github.com/kingrea/budgetbook/internal/money"
)

type filterField int

const (
	filterCategory filterField = iota
	filterSubcategory
	filterPayee
	filterAccount
	filterFieldCount
)

type expenseAuxMsg struct {
	instance string
	cats     []api.ExpenseCategory
	subs     []api.ExpenseSubCategory
	people   []api.Person
	accounts []api.Account
	err      error
}

type expensesModel struct {
	list    *listModel
	backend Backend
	book    *logbook.Logbook
	policy  config.SubcategoryPolicy
	dateFmt string

	month time.Time // first day of the viewed month

	auxReady bool
	cats     []api.ExpenseCategory
	subs     []api.ExpenseSubCategory
	people   []api.Person
	accounts []api.Account
	catNames map[int64]string
	subNames map[int64]string
	pplNames map[int64]string
	accNames map[int64]string

	// active filter selections, zero meaning "any"
	catID     int64
	subID     int64
	payeeID   int64
	accountID int64

	filterMode  bool
	filterFocus filterField

	total money.Amount
}

func newExpensesList(backend Backend, pageSize int, dateFmt string, policy config.SubcategoryPolicy, book *logbook.Logbook) *expensesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 24},
		{Title: "Payee", Width: 16},
		{Title: "Account", Width: 16},
		{Title: "Notes", Width: 22},
	}
	remove := func(ctx context.Context, id int64) error {
		return backend.DeleteExpense(ctx, id)
	}
	now := time.Now()
	e := &expensesModel{
		backend: backend,
		book:    book,
		policy:  policy,
		dateFmt: dateFmt,
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
	e.list = newListModel("Expenses", "expense", columns, pageSize, nil, remove, screenExpenseForm, book)
	return e
}

func (e *expensesModel) Init() tea.Cmd {
	e.list.phase = listLoading
	backend := e.backend
	instance := e.list.instance
	return tea.Batch(e.list.spin.Tick, func() tea.Msg {
		msg := expenseAuxMsg{instance: instance}
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			msg.cats, err = backend.ListExpenseCategories(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.subs, err = backend.ListExpenseSubCategories(ctx, 0)
			return err
		})
		g.Go(func() error {
			var err error
			msg.people, err = backend.ListPersons(ctx, lookupWindow)
			return err
		})
		g.Go(func() error {
			var err error
			msg.accounts, err = backend.ListAccounts(ctx, lookupWindow)
			return err
		})
		msg.err = g.Wait()
		return msg
	})
}

func (e *expensesModel) setSize(width, height int) { e.list.setSize(width, height) }

func (e *expensesModel) monthRange() (api.Date, api.Date) {
	start := api.NewDate(e.month.Year(), e.month.Month(), 1)
	last := e.month.AddDate(0, 1, -1)
	end := api.NewDate(last.Year(), last.Month(), last.Day())
	return start, end
}

func (e *expensesModel) buildFilter() api.ExpenseFilter {
	start, end := e.monthRange()
	return api.ExpenseFilter{
		CategoryID:    e.catID,
		SubcategoryID: e.subID,
		PayeeID:       e.payeeID,
		AccountID:     e.accountID,
		StartDate:     start,
		EndDate:       end,
	}
}

// refetch swaps in a fetch closure that snapshots the current filter and
// lookup maps, rewinds to the first page and starts loading. Page
// navigation keeps reusing the same closure, so every page of one
// listing is served under the same filter.
func (e *expensesModel) refetch() tea.Cmd {
	filter := e.buildFilter()
	catNames, subNames := e.catNames, e.subNames
	pplNames, accNames := e.pplNames, e.accNames
	backend, dateFmt := e.backend, e.dateFmt
	e.list.fetch = func(ctx context.Context, skip, limit int) ([]rowItem, error) {
		expenses, err := backend.ListExpenses(ctx, api.PageWindow{Skip: skip, Limit: limit}, filter)
		if err != nil {
			return nil, err
		}
		rows := make([]rowItem, len(expenses))
		for i, exp := range expenses {
			category := catNames[exp.CategoryID]
			if exp.SubcategoryID != nil {
				if sub, ok := subNames[*exp.SubcategoryID]; ok {
					category += " / " + sub
				}
			}
			rows[i] = rowItem{
				id: exp.ID,
				cells: []string{
					exp.Date.Time().Format(dateFmt),
					exp.Amount.String(),
					category,
					pplNames[exp.PayeeID],
					accNames[exp.AccountID],
					exp.Notes,
				},
				label: fmt.Sprintf("the expense of %s on %s", exp.Amount, exp.Date),
				ref:   exp,
			}
		}
		return rows, nil
	}
	e.list.skip = 0
	return e.list.startFetch()
}

func (e *expensesModel) recomputeTotal() {
	sum := decimal.Zero
	for _, item := range e.list.items {
		if exp, ok := item.ref.(api.Expense); ok {
			sum = sum.Add(exp.Amount.Decimal())
		}
	}
	e.total = money.New(sum)
}

// subcategoryChoices lists the subcategories offered for the current
// category selection. Without a category the configured policy decides
// between the full set and none at all.
func (e *expensesModel) subcategoryChoices() []api.ExpenseSubCategory {
	if e.catID != 0 {
		var scoped []api.ExpenseSubCategory
		for _, s := range e.subs {
			if s.ExpenseCategoryID == e.catID {
				scoped = append(scoped, s)
			}
		}
		return scoped
	}
	if e.policy == config.SubcategoriesNone {
		return nil
	}
	return e.subs
}

func (e *expensesModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case expenseAuxMsg:
		if msg.instance != e.list.instance {
			return nil
		}
		if msg.err != nil {
			e.list.phase = listFailed
			e.list.errMsg = msg.err.Error()
			e.book.Error("expense lookups failed: %v", msg.err)
			return nil
		}
		e.cats, e.subs = msg.cats, msg.subs
		e.people, e.accounts = msg.people, msg.accounts
		e.catNames = make(map[int64]string, len(msg.cats))
		for _, c := range msg.cats {
			e.catNames[c.ID] = c.Name
		}
		e.subNames = make(map[int64]string, len(msg.subs))
		for _, s := range msg.subs {
			e.subNames[s.ID] = s.Name
		}
		e.pplNames = make(map[int64]string, len(msg.people))
		for _, p := range msg.people {
			e.pplNames[p.ID] = p.Name
		}
		e.accNames = make(map[int64]string, len(msg.accounts))
		for _, a := range msg.accounts {
			e.accNames[a.ID] = a.Name
		}
		e.auxReady = true
		return e.refetch()

	case listLoadedMsg:
		cmd := e.list.Update(msg)
		e.recomputeTotal()
		return cmd

	case deleteDoneMsg:
		cmd := e.list.Update(msg)
		e.recomputeTotal()
		return cmd

	case tea.KeyMsg:
		return e.handleKey(msg)
	}
	return e.list.Update(msg)
}

func (e *expensesModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if e.list.confirm != nil {
		return e.list.Update(msg)
	}
	if !e.auxReady {
		if msg.String() == "r" && e.list.phase == listFailed {
			return e.Init()
		}
		return nil
	}
	if e.filterMode {
		return e.handleFilterKey(msg)
	}

	switch msg.String() {
	case "f":
		e.filterMode = true
		e.filterFocus = filterCategory
		return nil
	case "c":
		if e.catID != 0 || e.subID != 0 || e.payeeID != 0 || e.accountID != 0 {
			e.catID, e.subID, e.payeeID, e.accountID = 0, 0, 0, 0
			return e.refetch()
		}
		return nil
	case "[":
		e.month = e.month.AddDate(0, -1, 0)
		return e.refetch()
	case "]":
		e.month = e.month.AddDate(0, 1, 0)
		return e.refetch()
	}
	return e.list.Update(msg)
}

func (e *expensesModel) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "f", "enter":
		e.filterMode = false
		return nil
	case "tab", "down", "j":
		e.filterFocus = (e.filterFocus + 1) % filterFieldCount
		return nil
	case "shift+tab", "up", "k":
		e.filterFocus = (e.filterFocus + filterFieldCount - 1) % filterFieldCount
		return nil
	case "left", "h":
		return e.cycleFilter(-1)
	case "right", "l", " ":
		return e.cycleFilter(1)
	case "c":
		if e.catID != 0 || e.subID != 0 || e.payeeID != 0 || e.accountID != 0 {
			e.catID, e.subID, e.payeeID, e.accountID = 0, 0, 0, 0
			return e.refetch()
		}
	}
	return nil
}

type filterOption struct {
	id   int64
	name string
}

func (e *expensesModel) filterOptions(f filterField) []filterOption {
	opts := []filterOption{{0, "Any"}}
	switch f {
	case filterCategory:
		for _, c := range e.cats {
			opts = append(opts, filterOption{c.ID, c.Name})
		}
	case filterSubcategory:
		for _, s := range e.subcategoryChoices() {
			opts = append(opts, filterOption{s.ID, s.Name})
		}
	case filterPayee:
		for _, p := range e.people {
			opts = append(opts, filterOption{p.ID, p.Name})
		}
	case filterAccount:
		for _, a := range e.accounts {
			opts = append(opts, filterOption{a.ID, a.Name})
		}
	}
	return opts
}

func (e *expensesModel) filterValue(f filterField) *int64 {
	switch f {
	case filterCategory:
		return &e.catID
	case filterSubcategory:
		return &e.subID
	case filterPayee:
		return &e.payeeID
	default:
		return &e.accountID
	}
}

// cycleFilter steps the focused field through its options and reloads.
// Changing the category always resets the subcategory, since the old
// selection may no longer belong to the new scope.
func (e *expensesModel) cycleFilter(dir int) tea.Cmd {
	opts := e.filterOptions(e.filterFocus)
	if len(opts) < 2 {
		return nil
	}
	current := e.filterValue(e.filterFocus)
	idx := 0
	for i, o := range opts {
		if o.id == *current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(opts)) % len(opts)
	*current = opts[idx].id
	if e.filterFocus == filterCategory {
		e.subID = 0
	}
	return e.refetch()
}

func (e *expensesModel) filterLabel(f filterField) string {
	id := *e.filterValue(f)
	if id == 0 {
		return "Any"
	}
	switch f {
	case filterCategory:
		return e.catNames[id]
	case filterSubcategory:
		return e.subNames[id]
	case filterPayee:
		return e.pplNames[id]
	default:
		return e.accNames[id]
	}
}

func (e *expensesModel) filterPanel() string {
	names := [filterFieldCount]string{"Category", "Subcategory", "Payee", "Account"}
	lines := make([]string, 0, filterFieldCount)
	for f := filterField(0); f < filterFieldCount; f++ {
		line := fmt.Sprintf("%-12s ◂ %s ▸", names[f]+":", e.filterLabel(f))
		if f == e.filterFocus {
			line = selectedFieldStyle.Render(line)
		} else {
			line = mutedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, hintStyle.Render("tab next · ◂ ▸ change · c clear · esc close"))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (e *expensesModel) filterSummary() string {
	summary := e.month.Format("January 2006")
	for f := filterField(0); f < filterFieldCount; f++ {
		if *e.filterValue(f) != 0 {
			summary += " · " + e.filterLabel(f)
		}
	}
	return summary
}

func (e *expensesModel) View() string {
	parts := []string{
		titleStyle.Render("Expenses"),
		mutedStyle.Render(e.filterSummary() + "  ([ ] month · f filter)"),
		"",
	}
	if e.filterMode {
		parts = append(parts, e.filterPanel(), "")
	}
	if e.list.confirm != nil {
		parts = append(parts, e.list.confirm.View(min(e.list.width, 64)))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	switch e.list.phase {
	case listLoading:
		parts = append(parts, fmt.Sprintf("%s Loading expenses…", e.list.spin.View()))
	case listFailed:
		parts = append(parts,
			errorStyle.Render("⚠ "+e.list.errMsg),
			hintStyle.Render("r → try again"),
		)
	default:
		if len(e.list.items) == 0 {
			parts = append(parts, mutedStyle.Render("No expenses in this window."))
		} else {
			parts = append(parts, e.list.table.View())
		}
		parts = append(parts,
			mutedStyle.Render(e.list.pageInfo()),
			totalStyle.Render("Page total: "+e.total.String()),
		)
	}
	parts = append(parts, e.list.help.View(e.list.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
