package client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/localcache"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
)

// Restore resumes the persisted session, if any, by rotating its refresh
// token. Listeners are notified once with the outcome. A stale token is
// dropped; an unreachable backend keeps it for the next start.
func (c *Client) Restore(ctx context.Context) error {
	defer c.markRestored()

	raw, err := c.cache.Get(ctx, localcache.KeySession)
	if err != nil || len(raw) == 0 {
		return err
	}

	var resp dto.AuthResponse
	err = c.do(ctx, gatewayCall, "POST", "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: string(raw)}, &resp)
	if errors.Is(err, apperr.ErrUnauthorized) {
		slog.Info("persisted session expired")
		if err := c.cache.Delete(ctx, localcache.KeySession); err != nil {
			slog.Warn("failed to drop expired session", "error", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	return c.establish(ctx, &resp)
}

func (c *Client) markRestored() {
	c.mu.Lock()
	c.restored = true
	c.mu.Unlock()
	c.notify()
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	var resp dto.AuthResponse
	if err := c.do(ctx, gatewayCall, "POST", "/api/auth/register", "", dto.RegisterRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	if err := c.establish(ctx, &resp); err != nil {
		return err
	}
	c.notify()
	return nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	var resp dto.AuthResponse
	if err := c.do(ctx, gatewayCall, "POST", "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	if err := c.establish(ctx, &resp); err != nil {
		return err
	}
	c.notify()
	return nil
}

// SignOut revokes the refresh token on the backend and forgets the session
// locally even when the backend cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	access, refresh := c.access, c.refresh
	c.access, c.refresh, c.identity = "", "", nil
	c.mu.Unlock()

	if refresh != "" && access != "" {
		err := c.do(ctx, gatewayCall, "POST", "/api/auth/logout", access, dto.LogoutRequest{RefreshToken: refresh}, nil)
		if err != nil {
			slog.Warn("failed to revoke session on backend", "error", err)
		}
	}

	err := c.cache.Delete(ctx, localcache.KeySession)
	c.notify()
	return err
}

// OnChange registers fn. Once the session has been restored, fn is also
// called immediately with the current identity.
func (c *Client) OnChange(fn func(*session.Identity)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	restored := c.restored
	current := c.identity
	c.mu.Unlock()

	if restored {
		fn(current)
	}
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) establish(ctx context.Context, resp *dto.AuthResponse) error {
	c.mu.Lock()
	c.access = resp.AccessToken
	c.refresh = resp.RefreshToken
	c.identity = &session.Identity{UID: resp.User.ID.String(), Email: resp.User.Email}
	c.mu.Unlock()

	return c.cache.Set(ctx, localcache.KeySession, []byte(resp.RefreshToken))
}

func (c *Client) notify() {
	c.mu.Lock()
	current := c.identity
	fns := make([]func(*session.Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(current)
	}
}
