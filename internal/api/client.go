// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the chat backend.
//
// One Client instance is shared by the whole application. Every
// authenticated request reads the bearer token from the injected
// credentials.Store; a 401 from any endpoint clears the store and fires
// the OnUnauthorized callback so the router can force navigation to the
// login view.
package api

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatterm/internal/credentials"
)

// Configuration constants for the backend client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize limits response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// submitBurst is how many message submissions may happen back to back
	// before the limiter starts pacing them. The backend serializes the
	// assistant reply per chat, so there is no value in flooding it.
	submitBurst = 3

	// submitPerSecond is the sustained submission rate.
	submitPerSecond = 1
)

// Client is a client for the chat backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credentials.Store
	logger     *zap.Logger
	submitLim  *rate.Limiter

	// OnUnauthorized is invoked after a 401 response has cleared the
	// credential store. The UI layer uses it to navigate to login.
	OnUnauthorized func()
}

// NewClient creates a client for the given base URL. The credential
// store must not be nil; pass credentials.NewMemoryStore() in tests.
func NewClient(baseURL string, creds credentials.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		creds:     creds,
		logger:    logger,
		submitLim: rate.NewLimiter(submitPerSecond, submitBurst),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// IsConfigured returns true if a base URL is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// IsAuthenticated returns true if a bearer token is currently stored.
func (c *Client) IsAuthenticated() bool {
	return c.creds.Get() != ""
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// SignIn exchanges username/password for a bearer token via
// POST /auth/token (OAuth2 password grant, form-encoded) and stores the
// token on success.
func (c *Client) SignIn(ctx context.Context, username, password string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok TokenResponse
	if err := c.do(req, &tok); err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return &APIError{Status: http.StatusOK, Message: "empty access token in response"}
	}
	return c.creds.Set(tok.AccessToken)
}

// Register creates a new account via POST /users. It does not sign the
// user in; callers follow up with SignIn.
func (c *Client) Register(ctx context.Context, username, password, email string) error {
	return c.postJSON(ctx, "/users", RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, nil)
}

// SignOut drops the stored token. Purely client-side; the backend has no
// revocation endpoint.
func (c *Client) SignOut() error {
	return c.creds.Clear()
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// ListChats fetches the chat list via GET /chats.
func (c *Client) ListChats(ctx context.Context) (*ChatListResponse, error) {
	var out ChatListResponse
	if err := c.getJSON(ctx, "/chats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChat fetches one chat with its messages via GET /chats/{id}.
// Returns ErrNotFound when the id does not correspond to an existing chat.
func (c *Client) GetChat(ctx context.Context, id int) (*ChatDetail, error) {
	var out ChatDetail
	if err := c.getJSON(ctx, "/chats/"+strconv.Itoa(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateChat creates a chat via POST /chats. The caller is responsible
// for truncating the title to the 50-character limit.
func (c *Client) CreateChat(ctx context.Context, title string) (*CreateChatResponse, error) {
	var out CreateChatResponse
	if err := c.postJSON(ctx, "/chats", createChatRequest{Title: title}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteChat removes a chat via DELETE /chats/{id}.
func (c *Client) DeleteChat(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/chats/"+strconv.Itoa(id), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, nil)
}

// SendMessage submits user text to a chat via POST /chats/{id}/messages.
// The role is always "user"; the server produces the assistant reply on
// its own and the next detail fetch observes it. The client-side rate
// limiter refuses (rather than queues) excess submissions so the UI
// never blocks the event loop.
func (c *Client) SendMessage(ctx context.Context, id int, content string) error {
	if !c.submitLim.Allow() {
		return ErrRateLimited
	}
	return c.postJSON(ctx, "/chats/"+strconv.Itoa(id)+"/messages", sendMessageRequest{
		Content: content,
		Role:    RoleUser,
	}, nil)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request, attaching the bearer token when one is
// stored, and decodes a JSON response into out (nil out discards the
// body). Logs method, path, status and duration only - never headers or
// bodies, which may carry the token or message content.
func (c *Client) do(req *http.Request, out any) error {
	if token := c.creds.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	// Clear the Authorization header immediately so it cannot leak
	// through request dumps.
	req.Header.Del("Authorization")
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(req.URL.Path, resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", int64(MaxResponseSize))
	}
	return body, nil
}

// handleErrorResponse maps HTTP error responses to Go errors. A 401 on
// any endpoint clears the credential store and notifies the UI - the
// single-writer-on-failure rule for the shared token.
func (c *Client) handleErrorResponse(path string, statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	detail := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		detail = apiErr.Detail
	}

	switch statusCode {
	case http.StatusUnauthorized:
		// Auth endpoints return 401 for bad passwords too; only a rejected
		// bearer token invalidates the stored credentials.
		if path != "/auth/token" {
			c.creds.Clear()
			if c.OnUnauthorized != nil {
				c.OnUnauthorized()
			}
		}
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, detail)
		}
		return ErrNotFound
	default:
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return &APIError{Status: statusCode, Message: detail}
	}
}
