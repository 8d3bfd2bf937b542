// Package client talks to the cuisineo backend over HTTP. It is both the
// identity gateway and the recipe store of the application, and translates
// every HTTP status and transport failure into the apperr taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/localcache"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
)

var (
	_ recipes.Store   = (*Client)(nil)
	_ session.Gateway = (*Client)(nil)
)

// boundary tells which unavailability error a transport failure becomes.
type boundary int

const (
	storeCall boundary = iota
	gatewayCall
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      localcache.Cache

	mu        sync.Mutex
	access    string
	refresh   string
	identity  *session.Identity
	restored  bool
	listeners map[int]func(*session.Identity)
	nextID    int
}

func New(baseURL string, timeout time.Duration, cache localcache.Cache) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		listeners:  make(map[int]func(*session.Identity)),
	}
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access
}

func (c *Client) do(ctx context.Context, b boundary, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("backend unreachable", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", unavailable(b), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(b, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", unavailable(b), err)
	}
	return nil
}

func unavailable(b boundary) error {
	if b == gatewayCall {
		return apperr.ErrGatewayUnavailable
	}
	return apperr.ErrStoreUnavailable
}

func decodeError(b boundary, resp *http.Response) error {
	var e dto.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &e)

	switch e.Code {
	case dto.CodeValidation:
		fields := e.Fields
		if len(fields) == 0 {
			fields = map[string]string{"request": e.Message}
		}
		return &apperr.ValidationError{Fields: fields}
	case dto.CodeUnauthorized, dto.CodeForbidden:
		return apperr.ErrUnauthorized
	case dto.CodeNotFound:
		return apperr.ErrNotFound
	case dto.CodeInvalidCredentials:
		return apperr.ErrInvalidCredentials
	case dto.CodeEmailTaken:
		return apperr.ErrEmailTaken
	case dto.CodeInvalidEmail:
		return apperr.ErrInvalidEmail
	case dto.CodeWeakPassword:
		return apperr.ErrWeakPassword
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperr.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return apperr.ErrNotFound
	case b == gatewayCall && resp.StatusCode < 500:
		return fmt.Errorf("%w: status %d", apperr.ErrAuthUnknown, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", unavailable(b), resp.StatusCode)
}

// IsTransport reports whether err came from the network rather than from a
// decision of the backend.
func IsTransport(err error) bool {
	return errors.Is(err, apperr.ErrStoreUnavailable) || errors.Is(err, apperr.ErrGatewayUnavailable)
}
