package tui

import (
	"strings"
	"testing"
)

func TestConfirmDefaultsToCancel(t *testing.T) {
	c := newConfirm("Delete person", "Are you sure?")
	if got := c.handleKey(keyPress("enter")); got != confirmDismiss {
		t.Fatalf("enter on default focus should dismiss, got %d", got)
	}
}

func TestConfirmAcceptAndDismissKeys(t *testing.T) {
	c := newConfirm("Delete person", "Are you sure?")
	if got := c.handleKey(keyPress("y")); got != confirmAccept {
		t.Fatalf("y should accept, got %d", got)
	}
	if got := c.handleKey(keyPress("esc")); got != confirmDismiss {
		t.Fatalf("esc should dismiss, got %d", got)
	}
	if got := c.handleKey(keyPress("n")); got != confirmDismiss {
		t.Fatalf("n should dismiss, got %d", got)
	}
}

func TestConfirmFocusToggle(t *testing.T) {
	c := newConfirm("Delete person", "Are you sure?")
	c.handleKey(keyPress("left"))
	if got := c.handleKey(keyPress("enter")); got != confirmAccept {
		t.Fatalf("enter on confirm button should accept, got %d", got)
	}
}

func TestConfirmSwallowsKeysWhileLoading(t *testing.T) {
	c := newConfirm("Delete person", "Are you sure?")
	c.setLoading(true)
	for _, k := range []string{"y", "n", "esc", "enter"} {
		if got := c.handleKey(keyPress(k)); got != confirmNone {
			t.Fatalf("key %q should be swallowed while loading, got %d", k, got)
		}
	}
	if !strings.Contains(c.View(60), "Processing") {
		t.Fatalf("loading view should show progress text")
	}
}

func TestConfirmFailKeepsGateOpenWithError(t *testing.T) {
	c := newConfirm("Delete person", "Are you sure?")
	c.setLoading(true)
	c.fail("person has linked expenses")
	if c.loading {
		t.Fatalf("fail should clear the loading flag")
	}
	view := c.View(60)
	if !strings.Contains(view, "person has linked expenses") {
		t.Fatalf("error should render inside the gate, got:\n%s", view)
	}
	if got := c.handleKey(keyPress("esc")); got != confirmDismiss {
		t.Fatalf("gate should still be dismissable after failure, got %d", got)
	}
}

func TestConfirmLoadingClearsPreviousError(t *testing.T) {
	c := newConfirm("Delete person", "Are you sure?")
	c.fail("first attempt failed")
	c.setLoading(true)
	if c.errMsg != "" {
		t.Fatalf("starting a new attempt should clear the old error")
	}
}
