package form

import (
	"context"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes/recipestest"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Name:        "Crêpes",
		Category:    "dessert",
		Ingredients: "250 g de farine\n4 œufs\n50 cl de lait",
		Steps:       "Mélanger, laisser reposer, cuire.",
	}
}

func TestParseIngredients(t *testing.T) {
	got := ParseIngredients("  farine \n\n   \r\nœufs\r\n lait")
	assert.Equal(t, []string{"farine", "œufs", "lait"}, got)
	assert.Empty(t, ParseIngredients(" \n \n"))
}

func TestValidateRequiredFields(t *testing.T) {
	err := Validate(Input{Name: "  ", Ingredients: "\n  \n"})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field("name"))
	assert.NotEmpty(t, ve.Field("category"))
	assert.NotEmpty(t, ve.Field("ingredients"))
	assert.NotEmpty(t, ve.Field("steps"))
	assert.Empty(t, ve.Field("image_url"))
}

func TestValidateCategoryAndImageURL(t *testing.T) {
	in := validInput()
	in.Category = "soupe"
	in.ImageURL = "ftp://example.com/a.png"

	ve, ok := apperr.AsValidation(Validate(in))
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
	assert.NotEmpty(t, ve.Field("category"))
	assert.NotEmpty(t, ve.Field("image_url"))

	in = validInput()
	in.ImageURL = "https://example.com/crepes.jpg"
	assert.NoError(t, Validate(in))
}

func TestFieldsNormalizesImageURL(t *testing.T) {
	f := validInput().Fields()
	assert.Nil(t, f.ImageURL)
	assert.Equal(t, recipes.CategoryDessert, f.Category)
	assert.Equal(t, []string{"250 g de farine", "4 œufs", "50 cl de lait"}, f.Ingredients)

	in := validInput()
	in.ImageURL = " https://example.com/x.jpg "
	f = in.Fields()
	require.NotNil(t, f.ImageURL)
	assert.Equal(t, "https://example.com/x.jpg", *f.ImageURL)
}

func TestCheckFieldsRejectsBlankIngredient(t *testing.T) {
	f := validInput().Fields()
	require.NoError(t, CheckFields(f))

	f.Ingredients = append(f.Ingredients, "  ")
	ve, ok := apperr.AsValidation(CheckFields(f))
	require.True(t, ok)
	assert.Contains(t, ve.Field("ingredients"), "blank")

	f.Ingredients = nil
	ve, ok = apperr.AsValidation(CheckFields(f))
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field("ingredients"))
}

func TestValidateRejectsOverlongValues(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("é", MaxNameLength)
	in.ImageURL = "https://example.com/" + strings.Repeat("a", MaxImageURLLength-len("https://example.com/"))
	require.NoError(t, Validate(in), "values at the column size are accepted")

	in.Name += "é"
	in.ImageURL += "a"
	ve, ok := apperr.AsValidation(Validate(in))
	require.True(t, ok)
	assert.Equal(t, "Name cannot exceed 200 characters.", ve.Field("name"))
	assert.Equal(t, "The image URL cannot exceed 2048 characters.", ve.Field("image_url"))
}

func TestCheckFieldsRejectsOverlongValues(t *testing.T) {
	url := "https://example.com/" + strings.Repeat("a", MaxImageURLLength)
	f := validInput().Fields()
	f.Name = strings.Repeat("x", MaxNameLength+1)
	f.ImageURL = &url

	ve, ok := apperr.AsValidation(CheckFields(f))
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, ve.Field("name"), "200")
	assert.Contains(t, ve.Field("image_url"), "2048")
}

func TestValidateCredentials(t *testing.T) {
	assert.NoError(t, ValidateCredentials("chef@example.com", "secret"))
	assert.ErrorIs(t, ValidateCredentials("not-an-email", "secret"), apperr.ErrInvalidEmail)
	assert.ErrorIs(t, ValidateCredentials("chef@example.com", "12345"), apperr.ErrWeakPassword)
}

func TestSubmitValidationBlocksWrite(t *testing.T) {
	store := recipestest.NewMemStore().As("alice")
	id := &session.Identity{UID: "alice"}

	in := validInput()
	in.Name = ""
	_, err := Submit(context.Background(), id, store, in, nil)
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
	assert.Zero(t, store.InsertCalls)
}

func TestSubmitRequiresIdentity(t *testing.T) {
	store := recipestest.NewMemStore()

	_, err := Submit(context.Background(), nil, store, validInput(), nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Zero(t, store.InsertCalls)
}

func TestSubmitCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	store := recipestest.NewMemStore().As("alice")
	id := &session.Identity{UID: "alice"}

	created, err := Submit(ctx, id, store, validInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.OwnerID)
	assert.Equal(t, []string{"250 g de farine", "4 œufs", "50 cl de lait"}, created.Ingredients)

	in := FromRecipe(created)
	assert.Equal(t, "250 g de farine\n4 œufs\n50 cl de lait", in.Ingredients)
	in.Name = "Crêpes bretonnes"

	updated, err := Submit(ctx, id, store, in, &created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Crêpes bretonnes", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestSubmitRefusesForeignRecord(t *testing.T) {
	store := recipestest.NewMemStore().As("alice")
	foreign := recipes.Recipe{ID: "r1", OwnerID: "bob", Name: "Tarte"}
	store.Put(foreign)

	_, err := Submit(context.Background(), &session.Identity{UID: "alice"}, store, validInput(), &foreign)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Zero(t, store.UpdateCalls)
}

func TestSubmitStoreFailureIsRetryable(t *testing.T) {
	store := recipestest.NewMemStore().As("alice")
	store.InsertErr = assert.AnError

	_, err := Submit(context.Background(), &session.Identity{UID: "alice"}, store, validInput(), nil)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.True(t, apperr.Retryable(err))
}
