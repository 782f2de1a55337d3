// internal/tui/form.go
//
// Shared create/edit form core. Forms validate on submit only: typing
// never surfaces errors, a failed submit marks the offending fields, and
// editing a marked field clears its error along with the general one.
// While a save is in flight every key is swallowed, so a form can never
// double-submit.

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
)

// selectOption is one choice of a select field. Entity-backed options
// carry the id; enum-backed ones (currency, account type) carry the code.
type selectOption struct {
	id    int64
	code  string
	label string
}

type formField struct {
	kind     fieldKind
	label    string
	input    textinput.Model
	options  []selectOption
	selected int
	optional bool
	errMsg   string
}

func textField(label, placeholder string) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.Width = 36
	return formField{kind: fieldText, label: label, input: in}
}

func selectField(label string, options []selectOption) formField {
	return formField{kind: fieldSelect, label: label, options: options}
}

func (f *formField) value() string {
	if f.kind == fieldSelect {
		if f.selected >= 0 && f.selected < len(f.options) {
			return f.options[f.selected].label
		}
		return ""
	}
	return f.input.Value()
}

func (f *formField) selectedOption() selectOption {
	if f.selected >= 0 && f.selected < len(f.options) {
		return f.options[f.selected]
	}
	return selectOption{}
}

// selectByID points a select field at the option with the given id,
// falling back to the first option.
func (f *formField) selectByID(id int64) {
	f.selected = 0
	for i, o := range f.options {
		if o.id == id {
			f.selected = i
			return
		}
	}
}

func (f *formField) selectByCode(code string) {
	f.selected = 0
	for i, o := range f.options {
		if o.code == code {
			f.selected = i
			return
		}
	}
}

type formPhase int

const (
	formLoading formPhase = iota
	formReady
	formSubmitting
	formFailed
)

type formSeededMsg struct {
	instance string
	seed     func() // applied on the update goroutine when current
	err      error
}

type formSavedMsg struct {
	instance string
	err      error
}

type formCore struct {
	instance   string
	title      string
	resource   string
	editing    bool
	fields     []formField
	focus      int
	phase      formPhase
	generalErr string
	spin       spinner.Model
	width      int

	backScreen screenID

	// validate marks field errors and reports whether the form may be
	// submitted; save performs the network call.
	validate func() bool
	save     func(ctx context.Context) error

	// onChange runs after the focused field's value changed, letting a
	// form recompute dependent fields (expense subcategory scoping).
	onChange func(focus int)
}

func newFormCore(resource string, editing bool, backScreen screenID) formCore {
	title := "New " + resource
	if editing {
		title = "Edit " + resource
	}
	return formCore{
		instance:   uuid.NewString(),
		title:      title,
		resource:   resource,
		editing:    editing,
		phase:      formLoading,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		backScreen: backScreen,
	}
}

func (f *formCore) setSize(width, _ int) { f.width = width }

func (f *formCore) focusField(idx int) {
	if idx < 0 || idx >= len(f.fields) {
		return
	}
	if old := &f.fields[f.focus]; old.kind == fieldText {
		old.input.Blur()
	}
	f.focus = idx
	if fld := &f.fields[idx]; fld.kind == fieldText {
		fld.input.Focus()
	}
}

func (f *formCore) clearErrors() {
	f.generalErr = ""
	for i := range f.fields {
		f.fields[i].errMsg = ""
	}
}

// touch clears the stale errors a field edit invalidates.
func (f *formCore) touch(idx int) {
	f.fields[idx].errMsg = ""
	f.generalErr = ""
	if f.onChange != nil {
		f.onChange(idx)
	}
}

func (f *formCore) startSave() tea.Cmd {
	f.clearErrors()
	if !f.validate() {
		f.generalErr = "Please fix the highlighted fields."
		return nil
	}
	f.phase = formSubmitting
	instance, save := f.instance, f.save
	return tea.Batch(f.spin.Tick, func() tea.Msg {
		return formSavedMsg{instance: instance, err: save(context.Background())}
	})
}

func (f *formCore) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formSeededMsg:
		if msg.instance != f.instance {
			return nil
		}
		if msg.err != nil {
			f.phase = formFailed
			f.generalErr = msg.err.Error()
			return nil
		}
		msg.seed()
		f.phase = formReady
		if len(f.fields) > 0 {
			f.focus = 0
			if fld := &f.fields[0]; fld.kind == fieldText {
				fld.input.Focus()
			}
		}
		return nil

	case formSavedMsg:
		if msg.instance != f.instance || f.phase != formSubmitting {
			return nil
		}
		if msg.err != nil {
			f.phase = formReady
			f.generalErr = msg.err.Error()
			if f.generalErr == "" {
				verb := "create"
				if f.editing {
					verb = "update"
				}
				f.generalErr = "failed to " + verb + " " + f.resource
			}
			return nil
		}
		return navigateTo(f.backScreen, 0)

	case spinner.TickMsg:
		if f.phase != formLoading && f.phase != formSubmitting {
			return nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		return f.handleKey(msg)
	}
	return nil
}

func (f *formCore) handleKey(msg tea.KeyMsg) tea.Cmd {
	if f.phase == formSubmitting {
		return nil
	}
	switch msg.String() {
	case "esc":
		return navigateTo(f.backScreen, 0)
	case "ctrl+s":
		if f.phase != formReady {
			return nil
		}
		return f.startSave()
	}
	if f.phase != formReady || len(f.fields) == 0 {
		return nil
	}
	switch msg.String() {
	case "tab", "down", "enter":
		f.focusField((f.focus + 1) % len(f.fields))
		return nil
	case "shift+tab", "up":
		f.focusField((f.focus + len(f.fields) - 1) % len(f.fields))
		return nil
	}

	fld := &f.fields[f.focus]
	switch fld.kind {
	case fieldSelect:
		switch msg.String() {
		case "left":
			f.cycleSelect(fld, -1)
		case "right", " ":
			f.cycleSelect(fld, 1)
		}
		return nil
	default:
		before := fld.input.Value()
		var cmd tea.Cmd
		fld.input, cmd = fld.input.Update(msg)
		if fld.input.Value() != before {
			f.touch(f.focus)
		}
		return cmd
	}
}

func (f *formCore) cycleSelect(fld *formField, dir int) {
	if len(fld.options) == 0 {
		return
	}
	fld.selected = (fld.selected + dir + len(fld.options)) % len(fld.options)
	f.touch(f.focus)
}

func (f *formCore) View() string {
	title := titleStyle.Render(f.title)
	switch f.phase {
	case formLoading:
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			fmt.Sprintf("%s Loading…", f.spin.View()))
	case formFailed:
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			errorStyle.Render("⚠ "+f.generalErr),
			hintStyle.Render("esc → back"))
	}

	lines := []string{title, ""}
	for i := range f.fields {
		fld := &f.fields[i]
		var rendered string
		if fld.kind == fieldSelect {
			rendered = fmt.Sprintf("%-16s ◂ %s ▸", fld.label+":", fld.value())
		} else {
			rendered = fmt.Sprintf("%-16s %s", fld.label+":", fld.input.View())
		}
		if i == f.focus && f.phase == formReady {
			rendered = selectedFieldStyle.Render("▸ ") + rendered
		} else {
			rendered = "  " + rendered
		}
		lines = append(lines, rendered)
		if fld.errMsg != "" {
			lines = append(lines, "    "+fieldErrorStyle.Render(fld.errMsg))
		}
	}
	lines = append(lines, "")
	if f.phase == formSubmitting {
		lines = append(lines, fmt.Sprintf("%s Saving…", f.spin.View()))
	} else if f.generalErr != "" {
		lines = append(lines, errorStyle.Render("⚠ "+f.generalErr))
	}
	lines = append(lines, hintStyle.Render("ctrl+s save · esc cancel · tab next field"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
