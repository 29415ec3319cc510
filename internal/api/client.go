// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 20 * time.Second

	// DefaultMaxRetries is the number of attempts for retryable requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 8 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// One shared HTTP transport for all backend requests; per-request deadlines
// come from the caller's context plus the client timeout.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	// No client-level timeout: every request carries a context deadline.
}

// apiErrorBody is the error envelope the backend uses for non-2xx responses.
type apiErrorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a typed client for the fintrack backend.
//
// The zero value is not usable; construct with NewClient. Token access is
// mutex-guarded: the session manager is the only writer, views read
// concurrently.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	userAgent  string

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		userAgent:  "fintrack/0.3.0",
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithMaxRetries sets the maximum number of attempts for retryable requests.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries > 0 {
		c.maxRetries = maxRetries
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// TOKEN MANAGEMENT
// =============================================================================

// SetToken installs the bearer token for protected endpoints.
// Only the session manager calls this.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// HasToken reports whether a token is installed.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// TokenFingerprint returns a short SHA-256 fingerprint of the token for
// logging. SECURITY: never expose token fragments; log the fingerprint.
func (c *Client) TokenFingerprint() string {
	tok := c.currentToken()
	if tok == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// REQUEST PRIMITIVES
// =============================================================================

// requestOpts describes a single API call for the central do path.
type requestOpts struct {
	method string
	path   string
	body   any  // marshaled to JSON when non-nil
	authed bool // send the Authorization header
	retry  bool // retry transient failures (idempotent requests only)
}

// do performs an API request and decodes a 2xx JSON response into out.
// Pass a nil out to discard the body (mutations with uninteresting
// responses).
func (c *Client) do(ctx context.Context, opts requestOpts, out any) error {
	if opts.authed && !c.HasToken() {
		return &Error{Kind: KindAuth, Err: ErrNoToken}
	}

	var bodyBytes []byte
	if opts.body != nil {
		var err error
		bodyBytes, err = json.Marshal(opts.body)
		if err != nil {
			return &Error{Kind: KindValidation, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
	}

	attempts := 1
	if opts.retry {
		attempts = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return networkErr(ctx.Err())
			case <-time.After(backoffDelay(attempt)):
			}
		}

		err := c.doOnce(ctx, opts, bodyBytes, out)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// doOnce performs a single attempt.
func (c *Client) doOnce(ctx context.Context, opts requestOpts, bodyBytes []byte, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if bodyBytes != nil {
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(reqCtx, opts.method, c.baseURL+opts.path, body)
	if err != nil {
		return networkErr(fmt.Errorf("failed to create request: %w", err))
	}
	c.setHeaders(req, opts.authed, bodyBytes != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear the Authorization header immediately after the request
	// so a retained *http.Request can never leak it into logs.
	req.Header.Del("Authorization")

	if err != nil {
		log.Printf("API Request failed: %s %s (%v)", opts.method, opts.path, time.Since(start))
		return networkErr(err)
	}
	defer resp.Body.Close()

	log.Printf("API Response: %s %s -> %d (%v)", opts.method, opts.path, resp.StatusCode, time.Since(start))

	raw, err := readResponse(resp)
	if err != nil {
		return networkErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return decodeErr(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// setHeaders sets the required headers for a backend request.
func (c *Client) setHeaders(req *http.Request, authed, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Token "+c.currentToken())
	}
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// statusError maps a non-2xx response to a typed error.
func statusError(status int, raw []byte) *Error {
	msg := ""
	var envelope apiErrorBody
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Detail != "" {
			msg = envelope.Detail
		} else if envelope.Error != "" {
			msg = envelope.Error
		}
	}

	kind := KindServer
	if status == http.StatusUnauthorized {
		kind = KindAuth
	}
	return &Error{Kind: kind, Status: status, Message: msg}
}

// retryable reports whether an attempt may be repeated: transport failures
// and 5xx responses only. Auth and client errors never retry.
func retryable(err error) bool {
	apiErr, ok := err.(*Error)
	if !ok {
		return false
	}
	if apiErr.Kind == KindNetwork {
		return true
	}
	return apiErr.Kind == KindServer && apiErr.Status >= 500
}

// backoffDelay computes the exponential backoff delay for an attempt.
func backoffDelay(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
