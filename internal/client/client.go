package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/b3uf/backoffice/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client represents an HTTP client for the b3uf REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBaseTransport sets the transport wrapped by the bearer adapter
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if bt, ok := c.httpClient.Transport.(*BearerTransport); ok {
			bt.Base = rt
		}
	}
}

// New creates a new API client. Every request goes through a
// BearerTransport reading from tokens, which may be nil.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &BearerTransport{Tokens: tokens},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is returned for any non-2xx response
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// UserMessage is the server's explanation, suitable for display
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// Login authenticates the user and returns the token and profile
func (c *Client) Login(ctx context.Context, creds session.Credentials) (*session.AuthResponse, error) {
	var resp session.AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. Servers answer either {user, token} or
// the bare created user; both decode into AuthResponse.
func (c *Client) Register(ctx context.Context, user session.NewUser) (*session.AuthResponse, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", user, &raw); err != nil {
		return nil, err
	}

	var resp session.AuthResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if resp.User == nil {
			var created session.User
			if err := json.Unmarshal(raw, &created); err == nil && created.Email != "" {
				resp.User = &created
			}
		}
	}
	return &resp, nil
}

// Cat is a cat record as listed by the API
type Cat struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Surname              string  `json:"surname,omitempty"`
	IsFemale             bool    `json:"isFemale"`
	PedigreeNumber       string  `json:"pedigreeNumber,omitempty"`
	IdentificationNumber string  `json:"identificationNumber,omitempty"`
	IsDeceased           bool    `json:"isDeceased"`
	IsNeutered           bool    `json:"isNeutered"`
	Notes                *string `json:"notes,omitempty"`
	CreatedByCatteryID   int64   `json:"createdByCatteryId"`
}

// ListUsers returns all accounts (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]session.User, error) {
	var users []session.User
	if err := c.do(ctx, "list users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListCats returns the cats visible to the signed-in user
func (c *Client) ListCats(ctx context.Context) ([]Cat, error) {
	var cats []Cat
	if err := c.do(ctx, "list cats", http.MethodGet, "/cats", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// do sends a JSON request and decodes a JSON response into out
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"error": ...} or {"message": ...} from a body,
// falling back to the raw text
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
