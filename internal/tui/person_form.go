package tui

import (
	"context"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/budgetbook/internal/api"
	"github.com/kingrea/budgetbook/internal/logbook"
)

const (
	personFieldName = iota
	personFieldEmail
)

type personFormModel struct {
	form    formCore
	backend Backend
	book    *logbook.Logbook
	id      int64
}

func newPersonForm(backend Backend, id int64, book *logbook.Logbook) *personFormModel {
	m := &personFormModel{backend: backend, book: book, id: id}
	m.form = newFormCore("person", id != 0, screenPeople)
	m.form.fields = []formField{
		textField("Name", "Ada Lovelace"),
		textField("Email", "ada@example.com"),
	}
	m.form.validate = m.validate
	m.form.save = m.save
	if id == 0 {
		m.form.phase = formReady
		m.form.fields[personFieldName].input.Focus()
	}
	return m
}

func (m *personFormModel) Init() tea.Cmd {
	if m.id == 0 {
		return nil
	}
	backend, id, instance := m.backend, m.id, m.form.instance
	return tea.Batch(m.form.spin.Tick, func() tea.Msg {
		person, err := backend.GetPerson(context.Background(), id)
		return formSeededMsg{instance: instance, err: err, seed: func() {
			m.form.fields[personFieldName].input.SetValue(person.Name)
			m.form.fields[personFieldEmail].input.SetValue(person.Email)
		}}
	})
}

func (m *personFormModel) validate() bool {
	ok := true
	name := strings.TrimSpace(m.form.fields[personFieldName].input.Value())
	if len(name) < 2 {
		m.form.fields[personFieldName].errMsg = "Name must be at least 2 characters."
		ok = false
	}
	email := strings.TrimSpace(m.form.fields[personFieldEmail].input.Value())
	if _, err := mail.ParseAddress(email); err != nil {
		m.form.fields[personFieldEmail].errMsg = "Enter a valid email address."
		ok = false
	}
	return ok
}

func (m *personFormModel) save(ctx context.Context) error {
	input := api.PersonInput{
		Name:  strings.TrimSpace(m.form.fields[personFieldName].input.Value()),
		Email: strings.TrimSpace(m.form.fields[personFieldEmail].input.Value()),
	}
	if m.id == 0 {
		created, err := m.backend.CreatePerson(ctx, input)
		if err != nil {
			return err
		}
		m.book.Info("created person %d (%s)", created.ID, created.Name)
		return nil
	}
	if _, err := m.backend.UpdatePerson(ctx, m.id, input); err != nil {
		return err
	}
	m.book.Info("updated person %d", m.id)
	return nil
}

func (m *personFormModel) Update(msg tea.Msg) tea.Cmd { return m.form.Update(msg) }
func (m *personFormModel) View() string               { return m.form.View() }
func (m *personFormModel) setSize(w, h int)           { m.form.setSize(w, h) }
