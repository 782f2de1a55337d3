// internal/tui/listview.go
//
// Shared list/delete lifecycle for every resource screen. Each page owns
// a windowed slice of one collection: idle -> loading -> loaded|failed,
// re-entering loading whenever the offset or a filter changes. Fetches
// run inside tea.Cmd closures; a monotonic sequence token per view
// instance decides which response wins, so overlapping in-flight
// requests resolve deterministically and responses for a screen that was
// navigated away from are dropped.

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kingrea/budgetbook/internal/logbook"
)

type listPhase int

const (
	listIdle listPhase = iota
	listLoading
	listLoaded
	listFailed
)

// rowItem is one table row plus what the delete gate needs to describe it.
type rowItem struct {
	id    int64
	cells []string
	label string
	ref   any
}

type listLoadedMsg struct {
	instance string
	seq      int
	rows     []rowItem
	err      error
}

type deleteDoneMsg struct {
	instance string
	id       int64
	err      error
}

type listKeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Refresh key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Back    key.Binding
}

func defaultListKeyMap() listKeyMap {
	return listKeyMap{
		Prev:    key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
		Next:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
	}
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Add, k.Edit, k.Delete, k.Refresh, k.Back}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Refresh}, {k.Add, k.Edit, k.Delete, k.Back}}
}

type listModel struct {
	instance string
	title    string
	resource string
	pageSize int

	phase  listPhase
	skip   int
	short  bool
	seq    int
	items  []rowItem
	errMsg string

	table table.Model
	spin  spinner.Model
	keys  listKeyMap
	help  help.Model

	confirm *confirmModel
	pending *rowItem

	width  int
	height int

	book *logbook.Logbook

	fetch  func(ctx context.Context, skip, limit int) ([]rowItem, error)
	remove func(ctx context.Context, id int64) error

	formScreen screenID
}

func newListModel(
	title, resource string,
	columns []table.Column,
	pageSize int,
	fetch func(ctx context.Context, skip, limit int) ([]rowItem, error),
	remove func(ctx context.Context, id int64) error,
	formScreen screenID,
	book *logbook.Logbook,
) *listModel {
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(pageSize+1),
	)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return &listModel{
		instance:   uuid.NewString(),
		title:      title,
		resource:   resource,
		pageSize:   pageSize,
		phase:      listIdle,
		table:      tbl,
		spin:       sp,
		keys:       defaultListKeyMap(),
		help:       help.New(),
		book:       book,
		fetch:      fetch,
		remove:     remove,
		formScreen: formScreen,
	}
}

func (m *listModel) Init() tea.Cmd {
	return m.startFetch()
}

// startFetch issues the fetch for the current window. The captured
// sequence token makes the response identifiable as current or stale.
func (m *listModel) startFetch() tea.Cmd {
	m.phase = listLoading
	m.errMsg = ""
	m.seq++
	seq, instance := m.seq, m.instance
	skip, limit := m.skip, m.pageSize
	fetch := m.fetch
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		rows, err := fetch(context.Background(), skip, limit)
		return listLoadedMsg{instance: instance, seq: seq, rows: rows, err: err}
	})
}

func (m *listModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	cols := m.table.Columns()
	if len(cols) > 0 && width > 0 {
		m.table.SetWidth(width)
	}
}

func (m *listModel) selected() *rowItem {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	return &m.items[idx]
}

func (m *listModel) applyRows() {
	rows := make([]table.Row, len(m.items))
	for i, item := range m.items {
		rows[i] = table.Row(item.cells)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *listModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.instance != m.instance || msg.seq != m.seq {
			return nil // stale response from an earlier fetch or screen
		}
		if msg.err != nil {
			m.phase = listFailed
			m.errMsg = msg.err.Error()
			m.book.Error("%s list failed: %v", m.resource, msg.err)
			return nil
		}
		m.phase = listLoaded
		m.items = msg.rows
		m.short = len(msg.rows) < m.pageSize
		m.applyRows()
		return nil

	case deleteDoneMsg:
		if msg.instance != m.instance || m.confirm == nil {
			return nil
		}
		if msg.err != nil {
			m.confirm.fail(msg.err.Error())
			m.book.Error("delete %s %d failed: %v", m.resource, msg.id, msg.err)
			return nil
		}
		m.removeRow(msg.id)
		m.book.Info("deleted %s %d", m.resource, msg.id)
		m.confirm = nil
		m.pending = nil
		return nil

	case spinner.TickMsg:
		if m.phase != listLoading && (m.confirm == nil || !m.confirm.loading) {
			return nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *listModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm != nil {
		switch m.confirm.handleKey(msg) {
		case confirmAccept:
			return m.startDelete()
		case confirmDismiss:
			m.confirm = nil
			m.pending = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		if m.skip > 0 && m.phase != listLoading {
			m.skip -= m.pageSize
			if m.skip < 0 {
				m.skip = 0
			}
			return m.startFetch()
		}
		return nil
	case key.Matches(msg, m.keys.Next):
		if m.phase == listLoaded && !m.short {
			m.skip += m.pageSize
			return m.startFetch()
		}
		return nil
	case key.Matches(msg, m.keys.Refresh):
		// Retry re-issues the identical fetch, parameters unchanged.
		return m.startFetch()
	case key.Matches(msg, m.keys.Add):
		return navigateTo(m.formScreen, 0)
	case key.Matches(msg, m.keys.Edit):
		if row := m.selected(); row != nil {
			return navigateTo(m.formScreen, row.id)
		}
		return nil
	case key.Matches(msg, m.keys.Delete):
		if row := m.selected(); row != nil {
			m.pending = row
			m.confirm = newConfirm(
				fmt.Sprintf("Delete %s", m.resource),
				fmt.Sprintf("Are you sure you want to delete %s? This action cannot be undone.", row.label),
			)
			m.confirm.confirmLabel = "Delete"
		}
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *listModel) startDelete() tea.Cmd {
	if m.pending == nil {
		return nil
	}
	m.confirm.setLoading(true)
	instance, id := m.instance, m.pending.id
	remove := m.remove
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		err := remove(context.Background(), id)
		return deleteDoneMsg{instance: instance, id: id, err: err}
	})
}

// removeRow drops the deleted entity from the held page in place; no
// re-fetch is needed for the window to stay truthful.
func (m *listModel) removeRow(id int64) {
	kept := m.items[:0]
	for _, item := range m.items {
		if item.id != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	m.applyRows()
}

func (m *listModel) pageInfo() string {
	from := m.skip + 1
	to := m.skip + len(m.items)
	if len(m.items) == 0 {
		return fmt.Sprintf("no rows · offset %d", m.skip)
	}
	info := fmt.Sprintf("rows %d–%d", from, to)
	if m.short {
		info += " · last page"
	}
	return info
}

func (m *listModel) View() string {
	title := titleStyle.Render(m.title)

	if m.confirm != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, "", m.confirm.View(min(m.width, 64)))
	}

	var body string
	switch m.phase {
	case listLoading:
		body = fmt.Sprintf("%s Loading %s…", m.spin.View(), m.title)
	case listFailed:
		body = lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Render("⚠ "+m.errMsg),
			hintStyle.Render("r → try again"),
		)
	default:
		if len(m.items) == 0 {
			body = mutedStyle.Render("Nothing here yet. Press a to add one.")
		} else {
			body = m.table.View()
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body, mutedStyle.Render(m.pageInfo()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		m.help.View(m.keys),
	)
}
