// Package api is the HTTP client for the trading-bot backend. Field names
// and routes are the wire contract and are preserved exactly; everything
// behind them is opaque to the panel.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pocket-panel/internal/domain"
)

// Error is a non-2xx response from the backend, carrying the decoded
// {detail} payload when one was present.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the backend, the signal
// for an invalid or expired session.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// LoginResponse is the token issued by POST /api/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the JSON body for POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TradeRequest triggers a simulated trading run.
type TradeRequest struct {
	AccountID    string `json:"account_id"`
	StrategyID   string `json:"strategy_id"`
	Asset        string `json:"asset"`
	ChargingMode bool   `json:"charging_mode,omitempty"`
}

// TradeResult is the execution acknowledgment. Beyond the message it is
// opaque to the panel; its arrival is what triggers a history refresh.
type TradeResult struct {
	Message      string              `json:"message"`
	Trade        *domain.TradeRecord `json:"trade,omitempty"`
	Result       string              `json:"result,omitempty"`
	ChargingMode bool                `json:"charging_mode,omitempty"`
}

// StatusMessage is the generic {status, message} acknowledgment some
// endpoints return.
type StatusMessage struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// Client talks to one backend instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out LoginResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Register creates a new user.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves the identity behind a token.
func (c *Client) Me(ctx context.Context, token string) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	var out []domain.Account
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me/accounts", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAccount(ctx context.Context, token string, in domain.AccountInput) (*domain.Account, error) {
	var out domain.Account
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/me/accounts", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/users/me/accounts/"+id, token, nil, nil)
}

// TestAccount asks the backend to check the broker credentials of an
// account. The returned message is display-only.
func (c *Client) TestAccount(ctx context.Context, token, id string) (string, error) {
	var out StatusMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/me/accounts/"+id+"/test", token, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListStrategies(ctx context.Context, token string) ([]domain.Strategy, error) {
	var out []domain.Strategy
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me/strategies", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateStrategy(ctx context.Context, token string, in domain.StrategyInput) (*domain.Strategy, error) {
	var out domain.Strategy
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/me/strategies", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStrategy(ctx context.Context, token, id string, in domain.StrategyInput) (*domain.Strategy, error) {
	var out domain.Strategy
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/me/strategies/"+id, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TradingHistory fetches the authoritative trade snapshot, server-ordered.
func (c *Client) TradingHistory(ctx context.Context, token string) ([]domain.TradeRecord, error) {
	var out []domain.TradeRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/trading/history", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulateTrading triggers a bot run on the backend.
func (c *Client) SimulateTrading(ctx context.Context, token string, in TradeRequest) (*TradeResult, error) {
	var out TradeResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/simulate/trading", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WebhookURL builds the per-user TradingView webhook URL. Display only; the
// panel never calls it.
func (c *Client) WebhookURL(userID string) string {
	return fmt.Sprintf("%s/api/webhook/tradingview/%s", c.baseURL, userID)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
