package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	trace      io.Writer
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken updates the client's token
func (c *Client) SetToken(token string) {
	c.token = token
}

// SetTrace makes the client describe every request on w
func (c *Client) SetTrace(w io.Writer) {
	c.trace = w
}

// APIError represents an error response from the API
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) String() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Error carries the API's error code so callers can branch on it
type Error struct {
	Status int
	APIError
}

func (e *Error) Error() string {
	return e.String()
}

// Do performs an HTTP request
func (c *Client) Do(method, path string, body, result any) error {
	target := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "partyscore-cli")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.trace != nil {
		fmt.Fprintf(c.trace, "%s %s -> %d (%s) request_id=%s\n",
			method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), resp.Header.Get("X-Request-ID"))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return &Error{Status: resp.StatusCode, APIError: errResp.Error}
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// Put performs a PUT request
func (c *Client) Put(path string, body, result any) error {
	return c.Do(http.MethodPut, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(path string) error {
	return c.Do(http.MethodDelete, path, nil, nil)
}

// escape makes a player or action name safe to use as a path segment
func escape(name string) string {
	return url.PathEscape(name)
}
