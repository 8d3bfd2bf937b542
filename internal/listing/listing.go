// Package listing filters the recipe list shown on the home view.
package listing

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
)

// Criteria is the current filter. Zero values match everything.
type Criteria struct {
	Category recipes.Category
	Search   string
}

func (c Criteria) searchTerm() string {
	return strings.ToLower(strings.TrimSpace(c.Search))
}

// Filter keeps the recipes whose category equals c.Category and whose name
// contains c.Search, case-insensitively. Order is preserved.
func Filter(list []recipes.Recipe, c Criteria) []recipes.Recipe {
	term := c.searchTerm()
	out := make([]recipes.Recipe, 0, len(list))
	for _, r := range list {
		if c.Category != "" && r.Category != c.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(r.Name), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EmptyMessage is shown when Filter returned nothing. total is the size of
// the unfiltered list.
func EmptyMessage(total int, c Criteria) string {
	if total > 0 && c.searchTerm() != "" {
		return fmt.Sprintf("No recipe found for %q.", strings.TrimSpace(c.Search))
	}
	if total > 0 && c.Category != "" {
		return fmt.Sprintf("No recipe in the %q category.", string(c.Category))
	}
	return "No recipes to show yet."
}
