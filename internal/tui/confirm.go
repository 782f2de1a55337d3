// internal/tui/confirm.go
//
// The confirmation gate blocks a destructive action behind an explicit
// yes/no. It owns no domain state: the caller supplies the text and the
// loading flag, and reads back a single action per keypress.

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmSeverity int

const (
	confirmDanger confirmSeverity = iota
	confirmWarning
	confirmAdvisory
)

// confirmAction is the outcome of one keypress routed to the gate.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmAccept
	confirmDismiss
)

type confirmModel struct {
	title        string
	message      string
	confirmLabel string
	cancelLabel  string
	severity     confirmSeverity
	loading      bool
	errMsg       string
	focus        int // 0 = confirm, 1 = cancel
}

func newConfirm(title, message string) *confirmModel {
	return &confirmModel{
		title:        title,
		message:      message,
		confirmLabel: "Confirm",
		cancelLabel:  "Cancel",
		severity:     confirmDanger,
		focus:        1, // cancel is the safe default
	}
}

// setLoading freezes the gate while the confirmed action runs. Every
// dismissal and the confirm action itself are disabled until it clears.
func (c *confirmModel) setLoading(loading bool) {
	c.loading = loading
	if loading {
		c.errMsg = ""
	}
}

// fail keeps the gate open and surfaces the failure message inside it.
func (c *confirmModel) fail(message string) {
	c.loading = false
	c.errMsg = message
}

// handleKey maps a keypress to an action. While loading, everything is
// swallowed so the in-flight mutation cannot be double-submitted or
// abandoned half way.
func (c *confirmModel) handleKey(msg tea.KeyMsg) confirmAction {
	if c.loading {
		return confirmNone
	}
	switch msg.String() {
	case "esc":
		return confirmDismiss
	case "y":
		return confirmAccept
	case "n":
		return confirmDismiss
	case "left", "right", "tab", "shift+tab":
		c.focus = 1 - c.focus
		return confirmNone
	case "enter":
		if c.focus == 0 {
			return confirmAccept
		}
		return confirmDismiss
	}
	return confirmNone
}

func (c *confirmModel) severityColor() lipgloss.Color {
	switch c.severity {
	case confirmWarning:
		return lipgloss.Color("#F7B801")
	case confirmAdvisory:
		return lipgloss.Color("#5B8DEF")
	default:
		return lipgloss.Color("#FF6B6B")
	}
}

// View renders the gate as a bordered box.
func (c *confirmModel) View(width int) string {
	if width < 30 {
		width = 30
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(c.severityColor()).
		Render(c.title)
	body := lipgloss.NewStyle().Width(width - 6).Render(c.message)

	lines := []string{head, "", body}
	if c.errMsg != "" {
		lines = append(lines, "", errorStyle.Render("⚠ "+c.errMsg))
	}
	if c.loading {
		lines = append(lines, "", mutedStyle.Render("Processing…"))
	} else {
		lines = append(lines, "", c.renderButtons())
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.severityColor()).
		Padding(0, 2).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
	return box
}

func (c *confirmModel) renderButtons() string {
	confirm := "[ " + c.confirmLabel + " ]"
	cancel := "[ " + c.cancelLabel + " ]"
	focused := lipgloss.NewStyle().Bold(true).Foreground(c.severityColor())
	if c.focus == 0 {
		confirm = focused.Render(confirm)
		cancel = mutedStyle.Render(cancel)
	} else {
		confirm = mutedStyle.Render(confirm)
		cancel = focused.Render(cancel)
	}
	return confirm + "    " + cancel
}
