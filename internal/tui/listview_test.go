package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/table"
)

var testColumns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Name", Width: 20},
}

func scriptedList(t *testing.T, total int, removeErr error) (*listModel, *[]int64) {
	t.Helper()
	deleted := &[]int64{}
	fetch := func(_ context.Context, skip, limit int) ([]rowItem, error) {
		var rows []rowItem
		for i := skip; i < total && i < skip+limit; i++ {
			id := int64(i + 1)
			rows = append(rows, rowItem{
				id:    id,
				cells: []string{fmt.Sprintf("%d", id), fmt.Sprintf("Row %d", id)},
				label: fmt.Sprintf("row %d", id),
			})
		}
		return rows, nil
	}
	remove := func(_ context.Context, id int64) error {
		if removeErr != nil {
			return removeErr
		}
		*deleted = append(*deleted, id)
		return nil
	}
	m := newListModel("Rows", "row", testColumns, 10, fetch, remove, screenPersonForm, testLogbook(t))
	return m, deleted
}

func TestListPagination(t *testing.T) {
	m, _ := scriptedList(t, 25, nil)
	deliver(t, m, m.Init())
	if m.phase != listLoaded {
		t.Fatalf("expected loaded, got %d", m.phase)
	}
	if len(m.items) != 10 || m.short {
		t.Fatalf("full first page expected, got %d rows short=%v", len(m.items), m.short)
	}

	// prev is a no-op on the first page
	deliver(t, m, m.Update(keyPress("p")))
	if m.skip != 0 {
		t.Fatalf("prev on first page must not move the window, skip=%d", m.skip)
	}

	deliver(t, m, m.Update(keyPress("n")))
	if m.skip != 10 || len(m.items) != 10 {
		t.Fatalf("second page expected at skip 10, got skip=%d rows=%d", m.skip, len(m.items))
	}

	deliver(t, m, m.Update(keyPress("n")))
	if m.skip != 20 || len(m.items) != 5 || !m.short {
		t.Fatalf("short last page expected, got skip=%d rows=%d short=%v", m.skip, len(m.items), m.short)
	}

	// a short page disables next
	deliver(t, m, m.Update(keyPress("n")))
	if m.skip != 20 {
		t.Fatalf("next on a short page must not move the window, skip=%d", m.skip)
	}

	deliver(t, m, m.Update(keyPress("p")))
	if m.skip != 10 {
		t.Fatalf("prev should step back one window, skip=%d", m.skip)
	}
}

func TestListExactMultipleHasEmptyLastPage(t *testing.T) {
	m, _ := scriptedList(t, 10, nil)
	deliver(t, m, m.Init())
	if m.short {
		t.Fatalf("a full page cannot be marked last")
	}
	deliver(t, m, m.Update(keyPress("n")))
	if len(m.items) != 0 || !m.short {
		t.Fatalf("expected an empty short page, got rows=%d short=%v", len(m.items), m.short)
	}
}

func TestListStaleResponseDiscarded(t *testing.T) {
	m, _ := scriptedList(t, 25, nil)
	deliver(t, m, m.Init())

	// A response carrying an old sequence number must not be applied.
	stale := listLoadedMsg{instance: m.instance, seq: m.seq - 1, rows: []rowItem{{id: 99, cells: []string{"99", "stale"}}}}
	m.Update(stale)
	if len(m.items) != 10 || m.items[0].id != 1 {
		t.Fatalf("stale rows leaked into the model")
	}

	// Same for a response from another view instance.
	foreign := listLoadedMsg{instance: "other", seq: m.seq, rows: nil}
	m.Update(foreign)
	if m.phase != listLoaded || len(m.items) != 10 {
		t.Fatalf("foreign instance response must be ignored")
	}
}

func TestListFetchErrorAndRetry(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, skip, limit int) ([]rowItem, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return []rowItem{{id: 1, cells: []string{"1", "Row 1"}, label: "row 1"}}, nil
	}
	m := newListModel("Rows", "row", testColumns, 10, fetch,
		func(context.Context, int64) error { return nil }, screenPersonForm, testLogbook(t))

	deliver(t, m, m.Init())
	if m.phase != listFailed || m.errMsg != "connection refused" {
		t.Fatalf("expected failed phase with message, got phase=%d err=%q", m.phase, m.errMsg)
	}

	deliver(t, m, m.Update(keyPress("r")))
	if m.phase != listLoaded || len(m.items) != 1 {
		t.Fatalf("retry should reload the same window, phase=%d rows=%d", m.phase, len(m.items))
	}
}

func TestListDeleteRemovesRowInPlace(t *testing.T) {
	m, deleted := scriptedList(t, 3, nil)
	deliver(t, m, m.Init())

	deliver(t, m, m.Update(keyPress("d")))
	if m.confirm == nil {
		t.Fatalf("delete should open the confirmation gate")
	}
	deliver(t, m, m.Update(keyPress("y")))
	if m.confirm != nil {
		t.Fatalf("gate should close after a successful delete")
	}
	if len(*deleted) != 1 || (*deleted)[0] != 1 {
		t.Fatalf("expected row 1 deleted, got %v", *deleted)
	}
	if len(m.items) != 2 || m.items[0].id != 2 {
		t.Fatalf("row should be removed without a re-fetch, rows=%d", len(m.items))
	}
}

func TestListDeleteFailureKeepsGateOpen(t *testing.T) {
	m, _ := scriptedList(t, 3, errors.New("row is referenced"))
	deliver(t, m, m.Init())

	deliver(t, m, m.Update(keyPress("d")))
	deliver(t, m, m.Update(keyPress("y")))
	if m.confirm == nil {
		t.Fatalf("failed delete must keep the gate open")
	}
	if m.confirm.errMsg != "row is referenced" {
		t.Fatalf("gate should carry the failure message, got %q", m.confirm.errMsg)
	}
	if len(m.items) != 3 {
		t.Fatalf("no row may disappear on a failed delete")
	}
	deliver(t, m, m.Update(keyPress("esc")))
	if m.confirm != nil {
		t.Fatalf("gate should dismiss after the failure is acknowledged")
	}
}

func TestListDeleteDismissLeavesRow(t *testing.T) {
	m, deleted := scriptedList(t, 3, nil)
	deliver(t, m, m.Init())

	deliver(t, m, m.Update(keyPress("d")))
	deliver(t, m, m.Update(keyPress("n")))
	if m.confirm != nil {
		t.Fatalf("n should dismiss the gate")
	}
	if len(*deleted) != 0 {
		t.Fatalf("dismiss must not call the backend, got %v", *deleted)
	}
	if len(m.items) != 3 {
		t.Fatalf("dismiss must not drop rows")
	}
}
