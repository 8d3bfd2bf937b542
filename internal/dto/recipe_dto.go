package dto

import "github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"

type RecipeRequest = recipes.Fields

type BatchRecipeRequest struct {
	Recipes []recipes.Fields `json:"recipes"`
}

type RecipeListResponse struct {
	Recipes []recipes.Recipe `json:"recipes"`
	Count   int              `json:"count"`
	// HasMore is set when records follow this page; fetch them with
	// offset=Count more than the current offset.
	HasMore bool `json:"has_more"`
}
