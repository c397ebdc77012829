package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultUsername is the default HTTP Basic Auth username for catalog servers
	DefaultUsername = "catman"

	// DefaultPassword is the default HTTP Basic Auth password for catalog servers
	DefaultPassword = "catman"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second
)

// Client is an HTTP client for a single catman catalog server.
//
// The client holds no category state. Every ListCategories call hits the
// server; writes return only the affected identity. Keeping the client
// cache-free is what lets the browse screen treat a reload as the one
// source of truth after every write.
type Client struct {
	// BaseURL is the base URL for the server (e.g., "http://192.168.1.50:8470")
	BaseURL string

	// Username for HTTP Basic Auth
	Username string

	// Password for HTTP Basic Auth
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a new catalog client for the given host and port.
func NewClient(host string, port int) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewClientWithURL creates a new client with a full base URL
// baseURL: Full base URL (e.g., "http://192.168.1.50:8470")
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:               baseURL,
		Username:              DefaultUsername,
		Password:              DefaultPassword,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets custom HTTP Basic Auth credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping performs a simple health check on the server.
// Returns nil if the server is reachable and responding.
func (c *Client) Ping() error {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/v1/healthz", nil)
	if err != nil {
		return NewNetworkError("failed to create ping request", err)
	}
	req.SetBasicAuth(c.Username, c.Password)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("server unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check credentials)")
	}
	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	return nil
}

// ListCategories fetches all categories from the server.
// The returned slice is in the server's storage order; the client never
// sorts or filters it.
func (c *Client) ListCategories() ([]Category, error) {
	var list listResponse
	if err := c.doWithRetry(http.MethodGet, "/v1/categories", nil, &list); err != nil {
		return nil, err
	}
	if list.Categories == nil {
		list.Categories = []Category{}
	}
	return list.Categories, nil
}

// CreateCategory creates a new category with the given description and
// returns the identity the server assigned to it.
func (c *Client) CreateCategory(description string) (Identity, error) {
	if err := ValidateDescription(description); err != nil {
		return Identity{}, err
	}

	var identity Identity
	body := writeRequest{Description: description}
	if err := c.doWithRetry(http.MethodPost, "/v1/categories", &body, &identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// UpdateCategory replaces the description of the category addressed by key.
// Categories are addressed by their opaque key, never by ID.
func (c *Client) UpdateCategory(key, description string) (Identity, error) {
	if key == "" {
		return Identity{}, NewValidationError("category key must not be empty")
	}
	if err := ValidateDescription(description); err != nil {
		return Identity{}, err
	}

	var identity Identity
	body := writeRequest{Description: description}
	if err := c.doWithRetry(http.MethodPut, "/v1/categories/"+key, &body, &identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// DeleteCategory removes the category addressed by key and returns the
// identity of the removed category.
func (c *Client) DeleteCategory(key string) (Identity, error) {
	if key == "" {
		return Identity{}, NewValidationError("category key must not be empty")
	}

	var identity Identity
	if err := c.doWithRetry(http.MethodDelete, "/v1/categories/"+key, nil, &identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// doWithRetry performs a request with the client's retry policy.
// Non-retryable errors abort immediately; retryable ones back off
// exponentially up to MaxRetryDelay.
func (c *Client) doWithRetry(method, path string, body *writeRequest, out interface{}) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(currentDelay)

			// Exponential backoff
			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := c.doAttempt(method, path, body, out)
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// doAttempt performs a single request/response exchange.
func (c *Client) doAttempt(method, path string, body *writeRequest, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewParseError("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	req.SetBasicAuth(c.Username, c.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("%s request failed", method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthError("authentication failed (check credentials)")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return NewHTTPError(resp.StatusCode, readErrorMessage(resp))
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse server response", err)
	}

	return nil
}

// readErrorMessage extracts the server's error message from a failed
// response, falling back to the bare status code.
func readErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var body errorResponse
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
}
