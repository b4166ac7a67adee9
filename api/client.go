// Package api is the HTTP access layer for the feedback backend. It attaches
// the bearer token to outgoing requests, normalizes every failure into the
// four-kind error taxonomy, and exposes typed methods for each endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkittipat/feedloop/models"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token attached to subsequent requests.
// An empty token removes the Authorization header entirely. No network
// traffic happens here.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the token currently attached to outgoing requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers a callback invoked whenever any response comes
// back 401, before the error is returned to the caller. The session store
// uses this to invalidate itself so a stale token never outlives the first
// failed call.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Request issues a JSON request against the backend and decodes the response
// into out when it is non-nil. All failures are returned as *Error.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindServerError, Message: fmt.Sprintf("encode request body: %v", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Kind: KindServerError, Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// PostForm issues a form-urlencoded POST. The token endpoint is the only
// consumer; everything else on the backend speaks JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return &Error{Kind: KindServerError, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		normalized := normalizeTransport(err)
		c.logger.Debug("request failed",
			"method", req.Method, "path", req.URL.Path, "kind", normalized.Kind)
		return normalized
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.RLock()
		fn := c.onUnauthorized
		c.mu.RUnlock()
		if fn != nil {
			fn()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalizeResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindServerError, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// Login exchanges credentials for a bearer token. The backend implements the
// OAuth2 password flow, so the email travels in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token models.Token
	if err := c.PostForm(ctx, "/token", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Register creates a new account. It requires no token and leaves the
// client's token untouched.
func (c *Client) Register(ctx context.Context, payload models.UserCreate) (*models.User, error) {
	var user models.User
	if err := c.Request(ctx, http.MethodPost, "/api/users/", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
