// Package upstream is the typed client for the retail backend's REST API.
// Every authenticated call carries the session's bearer token; a missing
// token short-circuits locally with domain.ErrMissingCredential instead of
// issuing an unauthenticated request.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"retail-console/internal/domain"
)

// APIError is a non-2xx backend response that carried a structured message.
// The message is surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

// envelope mirrors the backend's ResponseDTO. Some backend builds return the
// payload under "token" instead of "data"; both are read.
type envelope struct {
	Message string `json:"message"`
	Data    string `json:"data"`
	Token   string `json:"token"`
}

func (e envelope) payload() string {
	if e.Data != "" {
		return e.Data
	}
	return e.Token
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

func New(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// do issues an authenticated request. out, when non-nil, receives the decoded
// 2xx body.
func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out interface{}) error {
	if strings.TrimSpace(token) == "" {
		return domain.ErrMissingCredential
	}
	return c.send(ctx, token, method, path, query, body, out)
}

// doPublic issues an unauthenticated request (login endpoints only).
func (c *Client) doPublic(ctx context.Context, method, path string, body, out interface{}) error {
	return c.send(ctx, "", method, path, nil, body, out)
}

func (c *Client) send(ctx context.Context, token, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) statusError(method, path string, status int, raw []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrCredentialRejected
	case http.StatusNotFound:
		return domain.ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return &APIError{Status: status, Message: env.Message}
	}
	if c.logger != nil {
		c.logger.Printf("%s %s: status %d with unstructured body", method, path, status)
	}
	return fmt.Errorf("%s %s: backend returned status %d", method, path, status)
}
