package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"github.com/kingrea/budgetbook/internal/api"
	"github.com/kingrea/budgetbook/internal/logbook"
)

func newPeopleList(backend Backend, pageSize int, dateFormat string, book *logbook.Logbook) *listModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 24},
		{Title: "Email", Width: 30},
		{Title: "Created", Width: 14},
	}
	fetch := func(ctx context.Context, skip, limit int) ([]rowItem, error) {
		people, err := backend.ListPersons(ctx, api.PageWindow{Skip: skip, Limit: limit})
		if err != nil {
			return nil, err
		}
		rows := make([]rowItem, len(people))
		for i, p := range people {
			rows[i] = rowItem{
				id: p.ID,
				cells: []string{
					fmt.Sprintf("%d", p.ID),
					p.Name,
					p.Email,
					p.CreatedAt.Format(dateFormat),
				},
				label: fmt.Sprintf("%q", p.Name),
				ref:   p,
			}
		}
		return rows, nil
	}
	remove := func(ctx context.Context, id int64) error {
		return backend.DeletePerson(ctx, id)
	}
	return newListModel("People", "person", columns, pageSize, fetch, remove, screenPersonForm, book)
}
