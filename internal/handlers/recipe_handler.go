package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RecipeHandler struct {
	recipeService *services.RecipeService
}

func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// List handles GET /api/recipes?owner=&limit=&offset=.
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	q := recipes.Query{OwnerID: c.Query("owner")}
	var err error
	if q.Limit, err = nonNegative(c.Query("limit")); err != nil {
		return fail(c, fiber.StatusBadRequest, dto.CodeValidation, "limit must be a positive integer")
	}
	if q.Offset, err = nonNegative(c.Query("offset")); err != nil {
		return fail(c, fiber.StatusBadRequest, dto.CodeValidation, "offset must be a positive integer")
	}

	list, more, err := h.recipeService.List(q)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.RecipeListResponse{Recipes: list, Count: len(list), HasMore: more})
}

func nonNegative(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	r, err := h.recipeService.Get(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(r)
}

func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	r, err := h.recipeService.Create(userID, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *RecipeHandler) CreateBatch(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BatchRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	list, err := h.recipeService.CreateBatch(userID, req.Recipes)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RecipeListResponse{Recipes: list, Count: len(list)})
}

func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	r, err := h.recipeService.Update(userID, c.Params("id"), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(r)
}

func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.recipeService.Delete(userID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
