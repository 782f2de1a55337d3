package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/budgetbook/internal/api"
	"github.com/kingrea/budgetbook/internal/logbook"
)

// newAccountsList wires the account page. Owners render by name, so the
// fetch side-loads the person collection alongside the account window.
func newAccountsList(backend Backend, pageSize int, book *logbook.Logbook) *listModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 22},
		{Title: "Type", Width: 12},
		{Title: "Balance", Width: 14},
		{Title: "Owners", Width: 30},
	}
	fetch := func(ctx context.Context, skip, limit int) ([]rowItem, error) {
		var (
			accounts []api.Account
			people   []api.Person
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			accounts, err = backend.ListAccounts(gctx, api.PageWindow{Skip: skip, Limit: limit})
			return err
		})
		g.Go(func() error {
			var err error
			people, err = backend.ListPersons(gctx, lookupWindow)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		names := make(map[int64]string, len(people))
		for _, p := range people {
			names[p.ID] = p.Name
		}
		owner := func(id int64) string {
			if name, ok := names[id]; ok {
				return name
			}
			return fmt.Sprintf("#%d", id)
		}

		rows := make([]rowItem, len(accounts))
		for i, a := range accounts {
			owners := owner(a.PrimaryOwnerID)
			if a.SecondOwnerID != nil {
				owners += ", " + owner(*a.SecondOwnerID)
			}
			rows[i] = rowItem{
				id: a.ID,
				cells: []string{
					fmt.Sprintf("%d", a.ID),
					a.Name,
					a.AccountType,
					a.InitialBalance.Format(a.Currency),
					owners,
				},
				label: fmt.Sprintf("account %q", a.Name),
				ref:   a,
			}
		}
		return rows, nil
	}
	remove := func(ctx context.Context, id int64) error {
		return backend.DeleteAccount(ctx, id)
	}
	return newListModel("Accounts", "account", columns, pageSize, fetch, remove, screenAccountForm, book)
}
