// internal/tui/app.go
//
// This is the main TUI for budgetbook.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// Every screen change mounts a fresh controller with its own instance
// token, so responses belonging to an abandoned screen are dropped
// instead of leaking into the new one.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/budgetbook/internal/config"
	"github.com/kingrea/budgetbook/internal/logbook"
	"github.com/kingrea/budgetbook/internal/session"
)

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	cfg     *config.Config
	backend Backend
	session *session.Session
	logbook *logbook.Logbook

	screen   screenID
	mainMenu list.Model

	people      *listModel
	accounts    *listModel
	expenses    *expensesModel
	personForm  *personFormModel
	accountForm *accountFormModel
	expenseForm *expenseFormModel

	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance
func NewApp(cfg *config.Config, backend Backend, sess *session.Session) (*App, error) {
	lb, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	lb.Info("Session opened for %s", sess.User().Name)

	menuItems := []list.Item{
		menuItem{title: "People", desc: "Owners and payees"},
		menuItem{title: "Accounts", desc: "Financial accounts and balances"},
		menuItem{title: "Expenses", desc: "Recorded spending by month"},
		menuItem{title: "Exit", desc: "Quit budgetbook"},
	}
	mainMenu := list.New(menuItems, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "◆ BUDGETBOOK"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	return &App{
		cfg:      cfg,
		backend:  backend,
		session:  sess,
		logbook:  lb,
		screen:   screenHome,
		mainMenu: mainMenu,
	}, nil
}

// mount builds a fresh controller for the target screen and starts its
// initial load. Old controllers are dropped; their instance tokens make
// any in-flight responses stale.
func (a *App) mount(screen screenID, entityID int64) tea.Cmd {
	a.people, a.accounts, a.expenses = nil, nil, nil
	a.personForm, a.accountForm, a.expenseForm = nil, nil, nil
	a.screen = screen
	pageSize := a.cfg.PageSize()

	var cmd tea.Cmd
	switch screen {
	case screenPeople:
		a.people = newPeopleList(a.backend, pageSize, a.cfg.DateFormat(), a.logbook)
		cmd = a.people.Init()
	case screenAccounts:
		a.accounts = newAccountsList(a.backend, pageSize, a.logbook)
		cmd = a.accounts.Init()
	case screenExpenses:
		a.expenses = newExpensesList(a.backend, pageSize, a.cfg.DateFormat(), a.cfg.UnscopedSubcategories(), a.logbook)
		cmd = a.expenses.Init()
	case screenPersonForm:
		a.personForm = newPersonForm(a.backend, entityID, a.logbook)
		cmd = a.personForm.Init()
	case screenAccountForm:
		a.accountForm = newAccountForm(a.backend, entityID, a.logbook)
		cmd = a.accountForm.Init()
	case screenExpenseForm:
		a.expenseForm = newExpenseForm(a.backend, entityID, a.logbook)
		cmd = a.expenseForm.Init()
	}
	a.applySizes()
	return cmd
}

func (a *App) applySizes() {
	contentWidth := max(20, a.width-6)
	contentHeight := max(10, a.height-12)
	a.mainMenu.SetSize(contentWidth, contentHeight)
	if a.people != nil {
		a.people.setSize(contentWidth, contentHeight)
	}
	if a.accounts != nil {
		a.accounts.setSize(contentWidth, contentHeight)
	}
	if a.expenses != nil {
		a.expenses.setSize(contentWidth, contentHeight)
	}
	if a.personForm != nil {
		a.personForm.setSize(contentWidth, contentHeight)
	}
	if a.accountForm != nil {
		a.accountForm.setSize(contentWidth, contentHeight)
	}
	if a.expenseForm != nil {
		a.expenseForm.setSize(contentWidth, contentHeight)
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.applySizes()
		return a, nil

	case navigateMsg:
		return a, a.mount(msg.screen, msg.entityID)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.logbook.Info("Session closed")
			return a, tea.Quit
		case "q":
			if a.screen == screenHome {
				a.logbook.Info("Session closed")
				return a, tea.Quit
			}
		case "esc":
			// Lists fall back to the menu. Forms own esc themselves:
			// they may be mid-confirm or want to return to their list.
			switch a.screen {
			case screenPeople, screenAccounts, screenExpenses:
				if a.listBusy() {
					break
				}
				return a, a.mount(screenHome, 0)
			}
		case "enter":
			if a.screen == screenHome {
				return a.handleMenuSelection()
			}
		}
	}

	return a, a.route(msg)
}

// listBusy reports whether the active list screen is in a sub-state
// (confirm gate, filter panel) that should consume esc itself.
func (a *App) listBusy() bool {
	switch a.screen {
	case screenPeople:
		return a.people != nil && a.people.confirm != nil
	case screenAccounts:
		return a.accounts != nil && a.accounts.confirm != nil
	case screenExpenses:
		return a.expenses != nil && (a.expenses.list.confirm != nil || a.expenses.filterMode)
	}
	return false
}

// route hands a message to whichever controller is on screen.
func (a *App) route(msg tea.Msg) tea.Cmd {
	switch a.screen {
	case screenHome:
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return cmd
	case screenPeople:
		if a.people != nil {
			return a.people.Update(msg)
		}
	case screenAccounts:
		if a.accounts != nil {
			return a.accounts.Update(msg)
		}
	case screenExpenses:
		if a.expenses != nil {
			return a.expenses.Update(msg)
		}
	case screenPersonForm:
		if a.personForm != nil {
			return a.personForm.Update(msg)
		}
	case screenAccountForm:
		if a.accountForm != nil {
			return a.accountForm.Update(msg)
		}
	case screenExpenseForm:
		if a.expenseForm != nil {
			return a.expenseForm.Update(msg)
		}
	}
	return nil
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "People":
		return a, a.mount(screenPeople, 0)
	case "Accounts":
		return a, a.mount(screenAccounts, 0)
	case "Expenses":
		return a, a.mount(screenExpenses, 0)
	case "Exit":
		a.logbook.Info("Session closed")
		return a, tea.Quit
	}
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	user := a.session.User()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		headerStyle.Render("◆ BUDGETBOOK"),
		mutedStyle.Render(fmt.Sprintf("  %s <%s> · %s · since %s", user.Name, user.Email, a.cfg.BaseURL(), a.session.StartedAt().Format("15:04"))),
	)

	var content string
	switch a.screen {
	case screenHome:
		content = a.mainMenu.View()
	case screenPeople:
		content = a.people.View()
	case screenAccounts:
		content = a.accounts.View()
	case screenExpenses:
		content = a.expenses.View()
	case screenPersonForm:
		content = a.personForm.View()
	case screenAccountForm:
		content = a.accountForm.View()
	case screenExpenseForm:
		content = a.expenseForm.View()
	}

	body := boxStyle.Width(max(20, width-2)).Render(content)

	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if a.statusMsg != "" {
		sections = append(sections, hintStyle.Render(a.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	head := headerStyle.Render(fmt.Sprintf("LOG · %s", fileName))
	body := mutedStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(head + "\n" + body)
}
