// Package recipestest provides an in-memory recipes.Store for tests. It
// applies the same owner-only policy as the backend.
package recipestest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/google/uuid"
)

type MemStore struct {
	mu      sync.Mutex
	caller  string
	records map[string]recipes.Recipe
	clock   func() time.Time

	// Injected failures, returned as-is when non-nil.
	ListErr   error
	GetErr    error
	InsertErr error
	UpdateErr error
	DeleteErr error

	ListCalls   int
	InsertCalls int
	BatchCalls  int
	UpdateCalls int
	DeleteCalls int
}

func NewMemStore() *MemStore {
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	return &MemStore{
		records: make(map[string]recipes.Recipe),
		clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

// As sets the authenticated caller used for ownership.
func (s *MemStore) As(uid string) *MemStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = uid
	return s
}

// Put stores r verbatim, bypassing the policy.
func (s *MemStore) Put(r recipes.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clock()
		r.UpdatedAt = r.CreatedAt
	}
	s.records[r.ID] = r
}

func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *MemStore) List(_ context.Context, q recipes.Query) ([]recipes.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	out := make([]recipes.Recipe, 0, len(s.records))
	for _, r := range s.records {
		if q.OwnerID != "" && r.OwnerID != q.OwnerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Offset >= len(out) {
		return []recipes.Recipe{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemStore) Get(_ context.Context, id string) (recipes.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return recipes.Recipe{}, s.GetErr
	}
	r, ok := s.records[id]
	if !ok {
		return recipes.Recipe{}, apperr.ErrNotFound
	}
	return r, nil
}

func (s *MemStore) Insert(_ context.Context, f recipes.Fields) (recipes.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InsertCalls++
	if s.InsertErr != nil {
		return recipes.Recipe{}, s.InsertErr
	}
	if s.caller == "" {
		return recipes.Recipe{}, apperr.ErrUnauthorized
	}
	return s.insertLocked(f), nil
}

func (s *MemStore) InsertBatch(_ context.Context, fs []recipes.Fields) ([]recipes.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BatchCalls++
	if s.InsertErr != nil {
		return nil, s.InsertErr
	}
	if s.caller == "" {
		return nil, apperr.ErrUnauthorized
	}
	out := make([]recipes.Recipe, 0, len(fs))
	for _, f := range fs {
		out = append(out, s.insertLocked(f))
	}
	return out, nil
}

func (s *MemStore) insertLocked(f recipes.Fields) recipes.Recipe {
	now := s.clock()
	r := recipes.Recipe{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Category:    f.Category,
		Ingredients: append([]string(nil), f.Ingredients...),
		Steps:       f.Steps,
		ImageURL:    f.ImageURL,
		OwnerID:     s.caller,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.records[r.ID] = r
	return r
}

func (s *MemStore) Update(_ context.Context, id string, f recipes.Fields) (recipes.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.UpdateErr != nil {
		return recipes.Recipe{}, s.UpdateErr
	}
	r, ok := s.records[id]
	if !ok {
		return recipes.Recipe{}, apperr.ErrNotFound
	}
	if !r.OwnedBy(s.caller) {
		return recipes.Recipe{}, apperr.ErrUnauthorized
	}
	r.Name = f.Name
	r.Category = f.Category
	r.Ingredients = append([]string(nil), f.Ingredients...)
	r.Steps = f.Steps
	r.ImageURL = f.ImageURL
	r.UpdatedAt = s.clock()
	s.records[id] = r
	return r, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	r, ok := s.records[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if !r.OwnedBy(s.caller) {
		return apperr.ErrUnauthorized
	}
	delete(s.records, id)
	return nil
}
