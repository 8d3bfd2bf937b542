package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/localcache"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
)

type State string

const (
	StateIdle      State = "idle"
	StateChecking  State = "checking"
	StateImporting State = "importing"
	StateDone      State = "done"
	StateError     State = "error"
)

var transitions = map[State][]State{
	StateIdle:      {StateChecking},
	StateChecking:  {StateImporting, StateDone, StateError},
	StateImporting: {StateDone, StateError},
	StateError:     {StateChecking},
}

// CanTransition reports whether the machine may move from s to to.
func (s State) CanTransition(to State) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeFlagSet     Outcome = "flag-set"
	OutcomeSkipPresent Outcome = "skip-present"
	OutcomeSkipEmpty   Outcome = "skip-empty"
	OutcomeImported    Outcome = "imported"
)

var flagValue = []byte("true")

// Migrator imports the local demo copy into the store the first time a
// signed-in user opens the create view. Runs are serialized.
type Migrator struct {
	cache localcache.Cache
	store recipes.Store

	mu      sync.Mutex
	state   State
	outcome Outcome
}

func NewMigrator(cache localcache.Cache, store recipes.Store) *Migrator {
	return &Migrator{cache: cache, store: store, state: StateIdle}
}

func (m *Migrator) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Migrator) move(to State) {
	if !m.state.CanTransition(to) {
		panic(fmt.Sprintf("seed: invalid transition %s -> %s", m.state, to))
	}
	m.state = to
}

func (m *Migrator) fail(err error, msg string, args ...any) (Outcome, error) {
	m.move(StateError)
	slog.Error(msg, append(args, "error", err)...)
	return OutcomeNone, err
}

// Run drives one migration attempt. Without an identity nothing happens.
// Once done, later runs return the same outcome without touching anything.
func (m *Migrator) Run(ctx context.Context, id *session.Identity) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == nil {
		return OutcomeNone, nil
	}
	if m.state == StateDone {
		return m.outcome, nil
	}

	m.move(StateChecking)

	flag, err := m.cache.Get(ctx, localcache.KeyImported)
	if err != nil {
		return m.fail(err, "failed to read migration flag")
	}
	if string(flag) == string(flagValue) {
		return m.finish(OutcomeFlagSet), nil
	}

	probe, err := m.store.List(ctx, recipes.Query{Limit: 1})
	if err != nil {
		return m.fail(err, "migration probe failed", "user_id", id.UID)
	}
	if len(probe) > 0 {
		return m.markDone(ctx, OutcomeSkipPresent)
	}

	local, err := LoadLocal(ctx, m.cache)
	if err != nil {
		return m.fail(err, "failed to read local recipes")
	}
	if len(local) == 0 {
		return m.markDone(ctx, OutcomeSkipEmpty)
	}

	m.move(StateImporting)
	fields := make([]recipes.Fields, 0, len(local))
	for _, r := range local {
		fields = append(fields, r.Fields())
	}
	if _, err := m.store.InsertBatch(ctx, fields); err != nil {
		return m.fail(err, "recipe import failed", "user_id", id.UID, "count", len(fields))
	}

	if err := m.cache.Set(ctx, localcache.KeyImported, flagValue); err != nil {
		return m.fail(err, "failed to set migration flag")
	}
	if err := m.cache.Delete(ctx, localcache.KeyRecipes); err != nil {
		slog.Warn("failed to clear local recipes", "error", err)
	}
	slog.Info("local recipes imported", "user_id", id.UID, "count", len(fields))
	return m.finish(OutcomeImported), nil
}

func (m *Migrator) markDone(ctx context.Context, outcome Outcome) (Outcome, error) {
	if err := m.cache.Set(ctx, localcache.KeyImported, flagValue); err != nil {
		return m.fail(err, "failed to set migration flag")
	}
	return m.finish(outcome), nil
}

func (m *Migrator) finish(outcome Outcome) Outcome {
	m.move(StateDone)
	m.outcome = outcome
	return outcome
}
