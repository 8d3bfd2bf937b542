package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/models"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(name string) recipes.Fields {
	return recipes.Fields{
		Name:        name,
		Category:    recipes.CategoryPlat,
		Ingredients: []string{"sel", "poivre"},
		Steps:       "Cuire.",
	}
}

func TestCreateThenGet(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db, testConfig())
	alice := createUser(t, db, "alice@example.com")

	empty := "  "
	f := fields("Blanquette")
	f.ImageURL = &empty
	created, err := svc.Create(alice.ID, f)
	require.NoError(t, err)
	assert.Equal(t, alice.ID.String(), created.OwnerID)
	assert.Nil(t, created.ImageURL)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Fields(), got.Fields())

	_, err = svc.Get(uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Get("not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateValidates(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db, testConfig())
	alice := createUser(t, db, "alice@example.com")

	f := fields("")
	f.Category = "soupe"
	_, err := svc.Create(alice.ID, f)
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field("name"))
	assert.NotEmpty(t, ve.Field("category"))

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListOrderOwnerAndLimit(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db, testConfig())
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	_, err := svc.Create(alice.ID, fields("A1"))
	require.NoError(t, err)
	_, err = svc.Create(bob.ID, fields("B1"))
	require.NoError(t, err)
	_, err = svc.Create(alice.ID, fields("A2"))
	require.NoError(t, err)

	all, _, err := svc.List(recipes.Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	mine, _, err := svc.List(recipes.Query{OwnerID: alice.ID.String()})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	probe, _, err := svc.List(recipes.Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, probe, 1)

	none, _, err := svc.List(recipes.Query{OwnerID: "garbage"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListPagesPastTheMaximum(t *testing.T) {
	db := setupDB(t)
	cfg := testConfig()
	cfg.RecipeListMaximum = 2
	svc := NewRecipeService(db, cfg)
	alice := createUser(t, db, "alice@example.com")
	for _, name := range []string{"R1", "R2", "R3", "R4", "R5"} {
		_, err := svc.Create(alice.ID, fields(name))
		require.NoError(t, err)
	}

	var names []string
	for offset, pages := 0, 0; ; pages++ {
		require.Less(t, pages, 3)
		page, more, err := svc.List(recipes.Query{Offset: offset})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page), 2)
		for _, r := range page {
			names = append(names, r.Name)
		}
		if !more {
			break
		}
		offset += len(page)
	}
	assert.ElementsMatch(t, []string{"R1", "R2", "R3", "R4", "R5"}, names)

	last, more, err := svc.List(recipes.Query{Offset: 4})
	require.NoError(t, err)
	assert.Len(t, last, 1)
	assert.False(t, more)
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db, testConfig())
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	created, err := svc.Create(alice.ID, fields("Gratin"))
	require.NoError(t, err)

	_, err = svc.Update(bob.ID, created.ID, fields("Volé"))
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Delete(bob.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gratin", got.Name)

	updated, err := svc.Update(alice.ID, created.ID, fields("Gratin dauphinois"))
	require.NoError(t, err)
	assert.Equal(t, "Gratin dauphinois", updated.Name)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	require.NoError(t, svc.Delete(alice.ID, created.ID))
	assert.ErrorIs(t, svc.Delete(alice.ID, created.ID), apperr.ErrNotFound)
}

func TestCreateBatchIsAtomic(t *testing.T) {
	db := setupDB(t)
	svc := NewRecipeService(db, testConfig())
	alice := createUser(t, db, "alice@example.com")

	bad := fields("Sans étapes")
	bad.Steps = ""
	_, err := svc.CreateBatch(alice.ID, []recipes.Fields{fields("Un"), bad})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.CreateBatch(alice.ID, nil)
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)

	out, err := svc.CreateBatch(alice.ID, []recipes.Fields{fields("Un"), fields("Deux"), fields("Trois")})
	require.NoError(t, err)
	require.Len(t, out, 3)
	ids := map[string]bool{}
	for _, r := range out {
		assert.Equal(t, alice.ID.String(), r.OwnerID)
		ids[r.ID] = true
	}
	assert.Len(t, ids, 3)
}
