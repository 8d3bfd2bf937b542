package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
)

// Input is the raw form state as typed by the user.
type Input struct {
	Name        string `json:"name" validate:"notblank,max=200"`
	Category    string `json:"category" validate:"required,category"`
	Ingredients string `json:"ingredients" validate:"ingredients"`
	Steps       string `json:"steps" validate:"notblank"`
	ImageURL    string `json:"image_url" validate:"omitempty,weburl,max=2048"`
}

// FromRecipe pre-fills the form from an existing record.
func FromRecipe(r recipes.Recipe) Input {
	in := Input{
		Name:        r.Name,
		Category:    string(r.Category),
		Ingredients: strings.Join(r.Ingredients, "\n"),
		Steps:       r.Steps,
	}
	if r.ImageURL != nil {
		in.ImageURL = *r.ImageURL
	}
	return in
}

func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Steps = strings.TrimSpace(in.Steps)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

// Validate checks the input and returns an *apperr.ValidationError keyed by
// field name.
func Validate(in Input) error {
	return translate(validate.Struct(in.normalized()))
}

// Fields converts valid input into the record attributes. An empty image URL
// becomes absent.
func (in Input) Fields() recipes.Fields {
	in = in.normalized()
	f := recipes.Fields{
		Name:        in.Name,
		Category:    recipes.Category(in.Category),
		Ingredients: ParseIngredients(in.Ingredients),
		Steps:       in.Steps,
	}
	if in.ImageURL != "" {
		u := in.ImageURL
		f.ImageURL = &u
	}
	return f
}

// ParseIngredients splits the text on line breaks, trims every line and
// drops the blank ones. Order is preserved.
func ParseIngredients(text string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Submit validates the input and writes it. A nil editing creates a new
// record; otherwise editing is updated in place. Nothing is sent to the store
// when validation fails or when nobody is signed in.
func Submit(ctx context.Context, id *session.Identity, store recipes.Store, in Input, editing *recipes.Recipe) (recipes.Recipe, error) {
	if err := Validate(in); err != nil {
		return recipes.Recipe{}, err
	}
	if id == nil {
		return recipes.Recipe{}, apperr.ErrUnauthorized
	}
	if editing != nil && !editing.OwnedBy(id.UID) {
		return recipes.Recipe{}, apperr.ErrUnauthorized
	}

	fields := in.Fields()
	var (
		saved recipes.Recipe
		err   error
	)
	if editing == nil {
		saved, err = store.Insert(ctx, fields)
	} else {
		saved, err = store.Update(ctx, editing.ID, fields)
	}
	if err != nil {
		slog.Error("failed to save recipe", "user_id", id.UID, "error", err)
		return recipes.Recipe{}, storeFailure(err)
	}
	return saved, nil
}

func storeFailure(err error) error {
	if _, ok := apperr.AsValidation(err); ok {
		return err
	}
	if errors.Is(err, apperr.ErrUnauthorized) || errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrStoreUnavailable) {
		return fmt.Errorf("save recipe: %w", err)
	}
	return fmt.Errorf("save recipe: %w: %v", apperr.ErrStoreUnavailable, err)
}
