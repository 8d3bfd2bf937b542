// Package recipes holds the recipe entity, the document store boundary and
// the typed read/delete operations the views use.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
)

// Access is the read/delete side of the recipe collection. Create and update
// go through the recipe form straight to the Store.
type Access struct {
	store Store
}

func NewAccess(store Store) *Access {
	return &Access{store: store}
}

// ListAll returns every recipe, newest first.
func (a *Access) ListAll(ctx context.Context) ([]Recipe, error) {
	list, err := a.store.List(ctx, Query{})
	if err != nil {
		slog.Error("failed to list recipes", "error", err)
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	sortNewestFirst(list)
	return list, nil
}

// ListByOwner returns the recipes created by ownerID, newest first.
func (a *Access) ListByOwner(ctx context.Context, ownerID string) ([]Recipe, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthorized
	}
	list, err := a.store.List(ctx, Query{OwnerID: ownerID})
	if err != nil {
		slog.Error("failed to list owner recipes", "user_id", ownerID, "error", err)
		return nil, fmt.Errorf("list recipes of %s: %w", ownerID, err)
	}
	sortNewestFirst(list)
	return list, nil
}

// GetByID looks a recipe up. A missing record is reported through found,
// not as an error.
func (a *Access) GetByID(ctx context.Context, id string) (Recipe, bool, error) {
	r, err := a.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return Recipe{}, false, nil
	}
	if err != nil {
		slog.Error("failed to get recipe", "recipe_id", id, "error", err)
		return Recipe{}, false, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return r, true, nil
}

// DeleteByID removes a recipe. Ownership is the store's decision; a record
// that no longer exists counts as deleted.
func (a *Access) DeleteByID(ctx context.Context, id string) error {
	err := a.store.Delete(ctx, id)
	if err == nil || errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	slog.Error("failed to delete recipe", "recipe_id", id, "error", err)
	return fmt.Errorf("delete recipe %s: %w", id, err)
}

func sortNewestFirst(list []Recipe) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
