// Package seed ships the demo recipes and moves them, once, from the local
// cache into the shared recipe store.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/localcache"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/google/uuid"
)

//go:embed demo.json
var demoJSON []byte

// Demo returns the bundled dataset as record fields.
func Demo() ([]recipes.Fields, error) {
	var fields []recipes.Fields
	if err := json.Unmarshal(demoJSON, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode demo recipes: %w", err)
	}
	return fields, nil
}

// SeedLocal writes the demo dataset to the local cache unless a local copy
// already exists. Records get local uuids and creation times one minute
// apart, the first one being the newest.
func SeedLocal(ctx context.Context, cache localcache.Cache, now time.Time) error {
	existing, err := cache.Get(ctx, localcache.KeyRecipes)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	demo, err := Demo()
	if err != nil {
		return err
	}
	local := make([]recipes.Recipe, 0, len(demo))
	for i, f := range demo {
		created := now.Add(-time.Duration(i) * time.Minute)
		local = append(local, recipes.Recipe{
			ID:          uuid.NewString(),
			Name:        f.Name,
			Category:    f.Category,
			Ingredients: f.Ingredients,
			Steps:       f.Steps,
			ImageURL:    f.ImageURL,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}

	data, err := json.Marshal(local)
	if err != nil {
		return fmt.Errorf("failed to encode local recipes: %w", err)
	}
	if err := cache.Set(ctx, localcache.KeyRecipes, data); err != nil {
		return err
	}
	slog.Debug("local demo recipes seeded", "count", len(local))
	return nil
}

// LoadLocal reads the pre-migration copy. A missing key yields an empty list.
func LoadLocal(ctx context.Context, cache localcache.Cache) ([]recipes.Recipe, error) {
	data, err := cache.Get(ctx, localcache.KeyRecipes)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var local []recipes.Recipe
	if err := json.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to decode local recipes: %w", err)
	}
	return local, nil
}
