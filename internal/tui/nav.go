package tui

import tea "github.com/charmbracelet/bubbletea"

type screenID int

const (
	screenHome screenID = iota
	screenPeople
	screenPersonForm
	screenAccounts
	screenAccountForm
	screenExpenses
	screenExpenseForm
)

// navigateMsg asks the app shell to mount a fresh controller for the
// target screen. entityID is zero for lists and create forms, the
// record id for edit forms.
type navigateMsg struct {
	screen   screenID
	entityID int64
}

func navigateTo(screen screenID, entityID int64) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{screen: screen, entityID: entityID}
	}
}
