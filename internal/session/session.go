// Package session holds the current identity of the application and the
// flag telling whether the gateway has reported it yet.
package session

import (
	"context"
	"log/slog"
	"sync"
)

type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Gateway is the identity provider. Implementations call the OnChange
// callbacks whenever the signed-in identity changes, and once after the
// persisted session has been restored (with nil when there is none).
type Gateway interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	OnChange(fn func(*Identity)) (unsubscribe func())
}

// State is a snapshot handed to observers.
type State struct {
	Identity     *Identity
	Initializing bool
}

type Session struct {
	gw Gateway

	mu        sync.RWMutex
	state     State
	observers map[int]func(State)
	nextID    int

	ready     chan struct{}
	readyOnce sync.Once
	unsub     func()
}

// New subscribes to gw for the lifetime of the returned session. It starts
// initializing until the gateway's first notification.
func New(gw Gateway) *Session {
	s := &Session{
		gw:        gw,
		state:     State{Initializing: true},
		observers: make(map[int]func(State)),
		ready:     make(chan struct{}),
	}
	unsub := gw.OnChange(s.onChange)

	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()
	return s
}

func (s *Session) onChange(id *Identity) {
	s.mu.Lock()
	if id != nil {
		cp := *id
		id = &cp
	}
	s.state = State{Identity: id}
	snapshot := s.state
	observers := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	for _, fn := range observers {
		fn(snapshot)
	}
}

// Current returns the signed-in identity or nil.
func (s *Session) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Identity
}

func (s *Session) Initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Initializing
}

// Wait blocks until the gateway has reported the real state.
func (s *Session) Wait(ctx context.Context) (*Identity, error) {
	select {
	case <-s.ready:
		return s.Current(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe registers fn for every subsequent state change.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) SignUp(ctx context.Context, email, password string) error {
	if err := s.gw.SignUp(ctx, email, password); err != nil {
		slog.Warn("sign up failed", "email", email, "error", err)
		return err
	}
	return nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	if err := s.gw.SignIn(ctx, email, password); err != nil {
		slog.Warn("sign in failed", "email", email, "error", err)
		return err
	}
	return nil
}

func (s *Session) SignOut(ctx context.Context) error {
	if err := s.gw.SignOut(ctx); err != nil {
		slog.Warn("sign out failed", "error", err)
		return err
	}
	return nil
}

// Close detaches the session from the gateway.
func (s *Session) Close() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
