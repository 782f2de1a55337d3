// internal/api/client.go
//
// Typed client for the budgeting REST backend. Every successful response
// arrives wrapped in a { "data": ... } envelope which the client unwraps;
// every failure is normalized into *Error with a displayable message.
// The client never retries — retry policy belongs to the caller.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Error is the normalized failure for any transport, HTTP, or decode
// problem. Status is zero when the request never produced a response.
type Error struct {
	Status  int
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// WithLogger attaches a logger for per-request diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client talks to the budgeting backend.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// NewClient builds a client rooted at baseURL (e.g.
// "http://localhost:8080/api/v1").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:   &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
}

// do issues one request and decodes the envelope payload into out when
// out is non-nil. Empty bodies resolve without a decode attempt.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err), err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Message: fmt.Sprintf("build request: %v", err), err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return &Error{Message: fmt.Sprintf("request failed: %v", err), err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err), err: err}
	}
	c.log.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response body: %v", err), err: err}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response payload: %v", err), err: err}
	}
	return nil
}

// errorMessage prefers the backend's message field and falls back to a
// generic status line when the body is absent or unparseable.
func errorMessage(raw []byte, status int) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && strings.TrimSpace(eb.Message) != "" {
		return eb.Message
	}
	return fmt.Sprintf("HTTP error, status %d", status)
}

func (w PageWindow) query() url.Values {
	v := url.Values{}
	if w.Limit > 0 {
		v.Set("skip", strconv.Itoa(w.Skip))
		v.Set("limit", strconv.Itoa(w.Limit))
	}
	return v
}

func (f ExpenseFilter) apply(v url.Values) {
	setID := func(key string, id int64) {
		if id > 0 {
			v.Set(key, strconv.FormatInt(id, 10))
		}
	}
	setID("category_id", f.CategoryID)
	setID("subcategory_id", f.SubcategoryID)
	setID("payee_id", f.PayeeID)
	setID("account_id", f.AccountID)
	if !f.StartDate.IsZero() {
		v.Set("start_date", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		v.Set("end_date", f.EndDate.String())
	}
}

// ListPersons fetches one page of people.
func (c *Client) ListPersons(ctx context.Context, window PageWindow) ([]Person, error) {
	var out []Person
	if err := c.do(ctx, http.MethodGet, "/persons", window.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPerson fetches one person by id.
func (c *Client) GetPerson(ctx context.Context, id int64) (Person, error) {
	var out Person
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/persons/%d", id), nil, nil, &out)
	return out, err
}

// CreatePerson creates a person and returns the stored entity.
func (c *Client) CreatePerson(ctx context.Context, input PersonInput) (Person, error) {
	var out Person
	err := c.do(ctx, http.MethodPost, "/persons", nil, input, &out)
	return out, err
}

// UpdatePerson replaces a person's fields.
func (c *Client) UpdatePerson(ctx context.Context, id int64, input PersonInput) (Person, error) {
	var out Person
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/persons/%d", id), nil, input, &out)
	return out, err
}

// DeletePerson removes a person. Deleting an already-deleted id surfaces
// the backend's HTTP error, never a silent success.
func (c *Client) DeletePerson(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/persons/%d", id), nil, nil, nil)
}

// ListAccounts fetches one page of accounts.
func (c *Client) ListAccounts(ctx context.Context, window PageWindow) ([]Account, error) {
	var out []Account
	if err := c.do(ctx, http.MethodGet, "/accounts", window.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount fetches one account by id.
func (c *Client) GetAccount(ctx context.Context, id int64) (Account, error) {
	var out Account
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/accounts/%d", id), nil, nil, &out)
	return out, err
}

// CreateAccount creates an account and returns the stored entity.
func (c *Client) CreateAccount(ctx context.Context, input AccountInput) (Account, error) {
	var out Account
	err := c.do(ctx, http.MethodPost, "/accounts", nil, input, &out)
	return out, err
}

// UpdateAccount replaces an account's fields.
func (c *Client) UpdateAccount(ctx context.Context, id int64, input AccountInput) (Account, error) {
	var out Account
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/accounts/%d", id), nil, input, &out)
	return out, err
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/accounts/%d", id), nil, nil, nil)
}

// ListExpenses fetches one page of expenses matching the filter.
func (c *Client) ListExpenses(ctx context.Context, window PageWindow, filter ExpenseFilter) ([]Expense, error) {
	query := window.query()
	filter.apply(query)
	var out []Expense
	if err := c.do(ctx, http.MethodGet, "/expenses", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpense fetches one expense by id.
func (c *Client) GetExpense(ctx context.Context, id int64) (Expense, error) {
	var out Expense
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/expenses/%d", id), nil, nil, &out)
	return out, err
}

// CreateExpense creates an expense and returns the stored entity.
func (c *Client) CreateExpense(ctx context.Context, input ExpenseInput) (Expense, error) {
	var out Expense
	err := c.do(ctx, http.MethodPost, "/expenses", nil, input, &out)
	return out, err
}

// UpdateExpense replaces an expense's fields.
func (c *Client) UpdateExpense(ctx context.Context, id int64, input ExpenseInput) (Expense, error) {
	var out Expense
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/expenses/%d", id), nil, input, &out)
	return out, err
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), nil, nil, nil)
}

// ListExpenseCategories fetches all expense categories.
func (c *Client) ListExpenseCategories(ctx context.Context) ([]ExpenseCategory, error) {
	var out []ExpenseCategory
	if err := c.do(ctx, http.MethodGet, "/expenses/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpenseCategory fetches one category by id.
func (c *Client) GetExpenseCategory(ctx context.Context, id int64) (ExpenseCategory, error) {
	var out ExpenseCategory
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/expenses/categories/%d", id), nil, nil, &out)
	return out, err
}

// ListExpenseSubCategories fetches subcategories, optionally narrowed to
// one parent category. A zero categoryID fetches the full universe.
func (c *Client) ListExpenseSubCategories(ctx context.Context, categoryID int64) ([]ExpenseSubCategory, error) {
	query := url.Values{}
	if categoryID > 0 {
		query.Set("expense_category_id", strconv.FormatInt(categoryID, 10))
	}
	var out []ExpenseSubCategory
	if err := c.do(ctx, http.MethodGet, "/expenses/categories/subcategories", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpenseSubCategory fetches one subcategory by id.
func (c *Client) GetExpenseSubCategory(ctx context.Context, id int64) (ExpenseSubCategory, error) {
	var out ExpenseSubCategory
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/expenses/categories/subcategories/%d", id), nil, nil, &out)
	return out, err
}
