package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu        sync.Mutex
	listeners map[int]func(*Identity)
	next      int
	accounts  map[string]string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{listeners: map[int]func(*Identity){}, accounts: map[string]string{}}
}

func (g *fakeGateway) emit(id *Identity) {
	g.mu.Lock()
	fns := make([]func(*Identity), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

func (g *fakeGateway) SignUp(_ context.Context, email, password string) error {
	g.mu.Lock()
	if _, ok := g.accounts[email]; ok {
		g.mu.Unlock()
		return apperr.ErrEmailTaken
	}
	g.accounts[email] = password
	g.mu.Unlock()
	g.emit(&Identity{UID: "uid-" + email, Email: email})
	return nil
}

func (g *fakeGateway) SignIn(_ context.Context, email, password string) error {
	g.mu.Lock()
	pw, ok := g.accounts[email]
	g.mu.Unlock()
	if !ok || pw != password {
		return apperr.ErrInvalidCredentials
	}
	g.emit(&Identity{UID: "uid-" + email, Email: email})
	return nil
}

func (g *fakeGateway) SignOut(context.Context) error {
	g.emit(nil)
	return nil
}

func (g *fakeGateway) OnChange(fn func(*Identity)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *fakeGateway) subscribers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.listeners)
}

func TestSessionStartsInitializing(t *testing.T) {
	s := New(newFakeGateway())
	defer s.Close()

	assert.True(t, s.Initializing())
	assert.Nil(t, s.Current())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionReadyAfterFirstNotification(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw)
	defer s.Close()

	gw.emit(nil)

	id, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.False(t, s.Initializing())
}

func TestSignInUpdatesIdentityThroughGateway(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw)
	defer s.Close()
	gw.emit(nil)

	var seen []State
	unsub := s.Subscribe(func(st State) { seen = append(seen, st) })
	defer unsub()

	ctx := context.Background()
	require.NoError(t, s.SignUp(ctx, "chef@example.com", "secret1"))
	require.NotNil(t, s.Current())
	assert.Equal(t, "chef@example.com", s.Current().Email)

	require.NoError(t, s.SignOut(ctx))
	assert.Nil(t, s.Current())

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0].Identity)
	assert.Nil(t, seen[1].Identity)
}

func TestSignInFailureKeepsReason(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw)
	defer s.Close()
	gw.emit(nil)

	err := s.SignIn(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Nil(t, s.Current())
}

func TestCloseUnsubscribes(t *testing.T) {
	gw := newFakeGateway()
	s := New(gw)
	require.Equal(t, 1, gw.subscribers())

	s.Close()
	s.Close()
	assert.Equal(t, 0, gw.subscribers())
}
