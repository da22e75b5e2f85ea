// Package client is a typed HTTP client for the expense API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls the /api/v1 routes of a finance backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithBearerToken authenticates every request with token
func WithBearerToken(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithHeader sets a header on every request, e.g. a session cookie
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

// New creates a client for the server at baseURL (scheme and host, no /api/v1)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		headers:    http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the failure body
type APIError struct {
	Status      int                 `json:"-"`
	Code        string              `json:"code"`
	Description string              `json:"description"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Description)
}

// Expense is one item of a list page
type Expense struct {
	ID         string  `json:"id"`
	Note       *string `json:"note"`
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	OccurredAt string  `json:"occurredAt"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

// ExpensePage is one page of expenses
type ExpensePage struct {
	Items      []Expense `json:"items"`
	Page       int32     `json:"page"`
	PageSize   int32     `json:"pageSize"`
	TotalItems int64     `json:"totalItems"`
	TotalPages int32     `json:"totalPages"`
}

// ListOptions filters and pages a list request. Zero values are omitted and
// the server defaults apply.
type ListOptions struct {
	Page      int32
	PageSize  int32
	SortBy    string
	SortDir   string
	Category  string
	MinAmount *int64
	MaxAmount *int64
	StartDate string
	EndDate   string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(int(o.Page)))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(int(o.PageSize)))
	}
	setIf(q, "sortBy", o.SortBy)
	setIf(q, "sortDir", o.SortDir)
	setIf(q, "category", o.Category)
	if o.MinAmount != nil {
		q.Set("minAmount", strconv.FormatInt(*o.MinAmount, 10))
	}
	if o.MaxAmount != nil {
		q.Set("maxAmount", strconv.FormatInt(*o.MaxAmount, 10))
	}
	setIf(q, "startDate", o.StartDate)
	setIf(q, "endDate", o.EndDate)
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// ExpenseInput is the body of create and edit requests. OccurredAt is YYYY-MM-DD.
type ExpenseInput struct {
	Note       *string `json:"note,omitempty"`
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	OccurredAt string  `json:"occurredAt"`
}

// Created is returned by CreateExpense
type Created struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// Updated is returned by EditExpense
type Updated struct {
	ID        string `json:"id"`
	UpdatedAt string `json:"updatedAt"`
}

// Deleted is returned by DeleteExpense
type Deleted struct {
	ID        string `json:"id"`
	DeletedAt string `json:"deletedAt"`
}

// ListExpenses fetches one page of the caller's expenses
func (c *Client) ListExpenses(ctx context.Context, opts ListOptions) (*ExpensePage, error) {
	var page ExpensePage
	if err := c.do(ctx, http.MethodGet, "/expenses", opts.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetExpense fetches a single expense
func (c *Client) GetExpense(ctx context.Context, id string) (*Expense, error) {
	var expense Expense
	if err := c.do(ctx, http.MethodGet, "/expenses/"+url.PathEscape(id), nil, nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// CreateExpense records a new expense
func (c *Client) CreateExpense(ctx context.Context, input ExpenseInput) (*Created, error) {
	var created Created
	if err := c.do(ctx, http.MethodPost, "/expenses", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// EditExpense overwrites an expense
func (c *Client) EditExpense(ctx context.Context, id string, input ExpenseInput) (*Updated, error) {
	var updated Updated
	if err := c.do(ctx, http.MethodPut, "/expenses/"+url.PathEscape(id), nil, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteExpense soft-deletes an expense
func (c *Client) DeleteExpense(ctx context.Context, id string) (*Deleted, error) {
	var deleted Deleted
	if err := c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Categories lists the expense categories
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var body struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/expenses/categories", nil, nil, &body); err != nil {
		return nil, err
	}
	return body.Categories, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "unknown"
			apiErr.Description = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
