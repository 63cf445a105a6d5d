// Package remote implements the backend expense store client. The backend
// exposes a PostgREST-style API over the expenses and profiles tables; this
// client is the source of truth whenever it is reachable.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pennylog/pennylog/internal/common"
	"github.com/pennylog/pennylog/internal/model"
)

// Client talks to the remote expense store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	token      string
}

// Config holds connection settings for the remote store.
type Config struct {
	BaseURL string
	APIKey  string
	Token   string
}

// NewClient creates a remote store client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: remote base URL", common.ErrMissingConfig)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Ping probes connectivity with a short deadline. It is called immediately
// before every authenticated write; the result is never cached.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodHead, "/rest/v1/expenses?limit=1", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", common.ErrRemoteUnreachable, resp.StatusCode)
	}
	return nil
}

// CreateExpense inserts an expense and returns the canonical record with
// the backend-assigned id.
func (c *Client) CreateExpense(ctx context.Context, userID string, expense *model.Expense) (*model.Expense, error) {
	row := toExpenseRow(expense)
	row.UserID = userID
	row.ID = "" // Backend assigns the canonical id

	body, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode expense: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/expenses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	rows, err := c.doRows(req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty create response", common.ErrRemoteRejected)
	}
	return fromExpenseRow(&rows[0]), nil
}

// UpdateExpense applies an update with an optimistic updated_at check.
// The PATCH is filtered on the updated_at this client last read; if the
// remote row moved on since then, zero rows match and the write is
// rejected with ErrStaleWrite.
func (c *Client) UpdateExpense(ctx context.Context, userID string, expense *model.Expense) (*model.Expense, error) {
	row := toExpenseRow(expense)
	row.UserID = userID

	body, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode expense: %w", err)
	}

	lastSeen := expense.UpdatedAt
	if lastSeen.IsZero() {
		lastSeen = time.Now()
	}
	path := fmt.Sprintf("/rest/v1/expenses?id=eq.%s&user_id=eq.%s&updated_at=lte.%s",
		url.QueryEscape(expense.ID),
		url.QueryEscape(userID),
		url.QueryEscape(lastSeen.UTC().Format(time.RFC3339)))

	req, err := c.newRequest(ctx, http.MethodPatch, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	rows, err := c.doRows(req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrStaleWrite
	}
	return fromExpenseRow(&rows[0]), nil
}

// DeleteExpense removes an expense owned by the user.
func (c *Client) DeleteExpense(ctx context.Context, userID, id string) error {
	path := fmt.Sprintf("/rest/v1/expenses?id=eq.%s&user_id=eq.%s",
		url.QueryEscape(id), url.QueryEscape(userID))

	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d - %s", common.ErrRemoteRejected, resp.StatusCode, string(respBody))
	}
	return nil
}

// ListExpenses returns all expenses owned by the user, newest first.
func (c *Client) ListExpenses(ctx context.Context, userID string) ([]model.Expense, error) {
	path := fmt.Sprintf("/rest/v1/expenses?user_id=eq.%s&order=timestamp.desc",
		url.QueryEscape(userID))

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	rows, err := c.doRows(req)
	if err != nil {
		return nil, err
	}

	expenses := make([]model.Expense, 0, len(rows))
	for i := range rows {
		expenses = append(expenses, *fromExpenseRow(&rows[i]))
	}
	return expenses, nil
}

// GetProfile reads the user's profile row.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	path := fmt.Sprintf("/rest/v1/profiles?id=eq.%s", url.QueryEscape(userID))

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", common.ErrRemoteRejected, resp.StatusCode)
	}

	var profiles []Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, common.ErrNotFound
	}
	return &profiles[0], nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doRows executes a request expecting a JSON array of expense rows.
func (c *Client) doRows(req *http.Request) ([]expenseRow, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRemoteUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d - %s", common.ErrRemoteRejected, resp.StatusCode, string(respBody))
	}

	var rows []expenseRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return rows, nil
}

// Profile mirrors the profiles table.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Currency    string `json:"currency"`
}
