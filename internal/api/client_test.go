package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/kingrea/budgetbook/internal/money"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), srv
}

func TestListPersonsWindowQuery(t *testing.T) {
	var gotQuery url.Values
	var gotContentType, gotRequestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"id": 1, "name": "Ada", "email": "ada@example.com"},
		}})
	})

	people, err := client.ListPersons(context.Background(), PageWindow{Skip: 10, Limit: 10})
	if err != nil {
		t.Fatalf("ListPersons: %v", err)
	}
	if len(people) != 1 || people[0].Name != "Ada" {
		t.Fatalf("unexpected payload: %+v", people)
	}
	if gotQuery.Get("skip") != "10" || gotQuery.Get("limit") != "10" {
		t.Fatalf("window not serialized: %v", gotQuery)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotRequestID == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestListExpensesFilterOmitsAbsentParams(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	filter := ExpenseFilter{
		CategoryID: 3,
		StartDate:  NewDate(2026, 9, 1),
		EndDate:    NewDate(2026, 9, 30),
	}
	if _, err := client.ListExpenses(context.Background(), PageWindow{Limit: 1000}, filter); err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if gotQuery.Get("category_id") != "3" {
		t.Fatalf("category_id missing: %v", gotQuery)
	}
	if gotQuery.Get("start_date") != "2026-09-01" || gotQuery.Get("end_date") != "2026-09-30" {
		t.Fatalf("date range wrong: %v", gotQuery)
	}
	for _, absent := range []string{"subcategory_id", "payee_id", "account_id"} {
		if _, ok := gotQuery[absent]; ok {
			t.Fatalf("absent filter %s must be omitted, got %v", absent, gotQuery)
		}
	}
}

func TestCreateExpenseRoundTrip(t *testing.T) {
	amount, _ := money.Parse("42.50")
	sub := int64(7)
	input := ExpenseInput{
		Amount:        amount,
		CategoryID:    2,
		SubcategoryID: &sub,
		Date:          NewDate(2026, 8, 15),
		PayeeID:       4,
		AccountID:     9,
		Notes:         "groceries",
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/expenses" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["amount"] != 42.5 {
			t.Errorf("amount sent as %v", body["amount"])
		}
		if body["date"] != "2026-08-15" {
			t.Errorf("date sent as %v", body["date"])
		}
		body["id"] = 11
		json.NewEncoder(w).Encode(map[string]any{"data": body})
	})

	created, err := client.CreateExpense(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.ID != 11 {
		t.Fatalf("id = %d", created.ID)
	}
	if created.Amount.String() != input.Amount.String() {
		t.Fatalf("amount round trip: %s vs %s", created.Amount, input.Amount)
	}
	if !created.Date.Equal(input.Date) {
		t.Fatalf("date round trip: %s vs %s", created.Date, input.Date)
	}
	if created.SubcategoryID == nil || *created.SubcategoryID != sub {
		t.Fatalf("subcategory round trip: %v", created.SubcategoryID)
	}
	if created.Notes != input.Notes {
		t.Fatalf("notes round trip: %q", created.Notes)
	}
}

func TestUpdateAccountSendsNullSecondOwner(t *testing.T) {
	var raw []byte
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"data": {"id": 7, "name": "Joint", "currency": "USD", "account_type": "checking", "initial_balance": 0, "primary_owner_id": 1, "second_owner_id": null}}`))
	})

	balance, _ := money.Parse("0")
	input := AccountInput{
		Name:           "Joint",
		Currency:       "USD",
		AccountType:    "checking",
		InitialBalance: balance,
		PrimaryOwnerID: 1,
		SecondOwnerID:  nil,
	}
	if _, err := client.UpdateAccount(context.Background(), 7, input); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}

	var sent map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	val, ok := sent["second_owner_id"]
	if !ok {
		t.Fatalf("second_owner_id must be present, body: %s", raw)
	}
	if string(val) != "null" {
		t.Fatalf("second_owner_id = %s, want null", val)
	}
}

func TestDeleteEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/persons/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeletePerson(context.Background(), 3); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
}

func TestErrorMessagePreference(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"backend message", http.StatusConflict, `{"message": "person has accounts"}`, "person has accounts"},
		{"empty body", http.StatusNotFound, "", "HTTP error, status 404"},
		{"unparseable body", http.StatusBadGateway, "<html>bad</html>", "HTTP error, status 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			err := client.DeletePerson(context.Background(), 1)
			if err == nil {
				t.Fatalf("expected error")
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tc.status)
			}
			if apiErr.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", apiErr.Message, tc.wantMsg)
			}
			if !IsStatus(err, tc.status) {
				t.Fatalf("IsStatus(%d) = false", tc.status)
			}
		})
	}
}

func TestTransportErrorNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL)
	_, err := client.GetPerson(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != 0 {
		t.Fatalf("transport errors carry no status, got %d", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Fatalf("expected displayable message")
	}
}

func TestMalformedEnvelopeSurfacesError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": `)) // truncated
	})
	_, err := client.GetPerson(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
}

func TestSubCategoryParentQuery(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/expenses/categories/subcategories" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})
	if _, err := client.ListExpenseSubCategories(context.Background(), 5); err != nil {
		t.Fatalf("ListExpenseSubCategories: %v", err)
	}
	if gotQuery.Get("expense_category_id") != "5" {
		t.Fatalf("parent filter missing: %v", gotQuery)
	}
	if _, err := client.ListExpenseSubCategories(context.Background(), 0); err != nil {
		t.Fatalf("ListExpenseSubCategories all: %v", err)
	}
	if _, ok := gotQuery["expense_category_id"]; ok {
		t.Fatalf("zero parent must be omitted: %v", gotQuery)
	}
}
