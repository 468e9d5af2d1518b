// ABOUTME: Configured HTTP client for the EcoFinds REST backend
// ABOUTME: Attaches bearer tokens from the session store and handles 401 globally

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

// APIError is a non-2xx response from the backend, body included so the
// auth layer can extract field errors.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// ConnectError is a network-level failure: no response at all.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot connect to backend at %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is the single configured HTTP client for one principal's view of
// the backend. Every request goes through two hooks: the request side
// attaches the stored access token as a bearer header, the response side
// clears the session and fires the unauthorized hook on 401.
type Client struct {
	baseURL    string
	origin     string // scheme://host of baseURL, for media URLs
	httpClient *http.Client
	store      store.Store

	unauthorizedOnce sync.Once
	onUnauthorized   func()
}

// NewClient creates a client with the given base URL, per-request timeout,
// and session store.
func NewClient(baseURL string, timeout time.Duration, s store.Store) *Client {
	origin := ""
	if u, err := url.Parse(baseURL); err == nil {
		origin = u.Scheme + "://" + u.Host
	}
	return &Client{
		baseURL: baseURL,
		origin:  origin,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		store: s,
	}
}

// SetUnauthorizedHook registers a callback fired at most once when the
// backend rejects the session. The web layer uses it to redirect to login.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Origin returns the scheme://host portion of the base URL.
func (c *Client) Origin() string {
	return c.origin
}

// Store returns the session store this client reads tokens from.
func (c *Client) Store() store.Store {
	return c.store
}

// JSON sends a request with an optional JSON payload and decodes the JSON
// response into out (which may be nil).
func (c *Client) JSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// Multipart sends a multipart form with the given fields and an optional
// file part, decoding the JSON response into out.
func (c *Client) Multipart(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file []byte, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to build form: %w", err)
		}
	}
	if len(file) > 0 {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return fmt.Errorf("failed to build form: %w", err)
		}
		if _, err := part.Write(file); err != nil {
			return fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out)
}

// send executes the request with the auth header attached, maps transport
// failures, and applies the global 401 handling.
func (c *Client) send(req *http.Request, out interface{}) error {
	if token, ok := c.store.Get(store.KeyAccessToken); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.requestError(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The session is dead; clear it here so synchronous reads agree
		// immediately, and let the hook redirect exactly once.
		c.store.Delete(store.KeyAccessToken, store.KeyRefreshToken, store.KeyUser)
		c.unauthorizedOnce.Do(func() {
			slog.Info("Session rejected by backend", "path", req.URL.Path)
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		})
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("invalid response from backend: %w", err)
		}
	}
	return nil
}

// requestError converts transport errors to user-meaningful ones.
func (c *Client) requestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	slog.Error("Backend request failed", "url", c.baseURL, "error", err)
	return &ConnectError{URL: c.baseURL, Err: err}
}
