package recipes

import (
	"context"
	"time"
)

type Category string

const (
	CategoryEntree  Category = "entrée"
	CategoryPlat    Category = "plat"
	CategoryDessert Category = "dessert"
	CategoryBoisson Category = "boisson"
)

// Categories lists the fixed category enum in display order.
var Categories = []Category{CategoryEntree, CategoryPlat, CategoryDessert, CategoryBoisson}

func (c Category) Valid() bool {
	for _, valid := range Categories {
		if c == valid {
			return true
		}
	}
	return false
}

// Recipe is the canonical record as held by the document store.
type Recipe struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Ingredients []string  `json:"ingredients"`
	Steps       string    `json:"steps"`
	ImageURL    *string   `json:"image_url,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields are the user-supplied attributes of a recipe. The store assigns
// the id, the owner and both timestamps.
type Fields struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Ingredients []string `json:"ingredients"`
	Steps       string   `json:"steps"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

func (r Recipe) Fields() Fields {
	return Fields{
		Name:        r.Name,
		Category:    r.Category,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		ImageURL:    r.ImageURL,
	}
}

// OwnedBy reports whether uid owns the record.
func (r Recipe) OwnedBy(uid string) bool {
	return uid != "" && r.OwnerID == uid
}

// Query is a collection scan. Results are always ordered by CreatedAt
// descending; an empty OwnerID matches every owner and Limit <= 0 means no
// limit. Offset skips that many records of the ordered scan.
type Query struct {
	OwnerID string
	Limit   int
	Offset  int
}

// Store is the document store boundary. Implementations derive the owner of
// inserted records from the authenticated caller and enforce the owner-only
// mutation policy themselves.
type Store interface {
	List(ctx context.Context, q Query) ([]Recipe, error)
	// Get returns apperr.ErrNotFound when no record has the id.
	Get(ctx context.Context, id string) (Recipe, error)
	Insert(ctx context.Context, f Fields) (Recipe, error)
	// InsertBatch writes every record or none of them.
	InsertBatch(ctx context.Context, fs []Fields) ([]Recipe, error)
	Update(ctx context.Context, id string, f Fields) (Recipe, error)
	Delete(ctx context.Context, id string) error
}
