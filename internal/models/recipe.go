package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recipe is a document of the flat recipes collection.
type Recipe struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Category    string         `gorm:"size:20;not null;index" json:"category"`
	Ingredients datatypes.JSON `gorm:"not null" json:"ingredients"`
	Steps       string         `gorm:"type:text;not null" json:"steps"`
	ImageURL    *string        `gorm:"size:2048" json:"image_url,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Owner       User           `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Apply copies user-supplied fields onto the row.
func (r *Recipe) Apply(f recipes.Fields) error {
	ingredients := f.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	raw, err := json.Marshal(ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients: %w", err)
	}
	r.Name = f.Name
	r.Category = string(f.Category)
	r.Ingredients = datatypes.JSON(raw)
	r.Steps = f.Steps
	r.ImageURL = f.ImageURL
	return nil
}

func (r *Recipe) ToDomain() (recipes.Recipe, error) {
	var ingredients []string
	if len(r.Ingredients) > 0 {
		if err := json.Unmarshal(r.Ingredients, &ingredients); err != nil {
			return recipes.Recipe{}, fmt.Errorf("failed to decode ingredients of %s: %w", r.ID, err)
		}
	}
	return recipes.Recipe{
		ID:          r.ID.String(),
		Name:        r.Name,
		Category:    recipes.Category(r.Category),
		Ingredients: ingredients,
		Steps:       r.Steps,
		ImageURL:    r.ImageURL,
		OwnerID:     r.OwnerID.String(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// OwnedBy returns a GORM scope that filters recipes by owner.
func OwnedBy(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}
