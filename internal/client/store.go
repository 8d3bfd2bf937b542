package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
)

func recipePath(id string) string {
	return "/api/recipes/" + url.PathEscape(id)
}

// List scans the collection. Without a limit it follows the backend's pages
// until the last one, so every matching record is returned.
func (c *Client) List(ctx context.Context, q recipes.Query) ([]recipes.Recipe, error) {
	if q.Limit > 0 {
		page, err := c.listPage(ctx, q)
		if err != nil {
			return nil, err
		}
		return page.Recipes, nil
	}

	out := make([]recipes.Recipe, 0)
	seen := make(map[string]bool)
	for {
		page, err := c.listPage(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Recipes {
			// Inserts between pages shift the offsets.
			if !seen[r.ID] {
				seen[r.ID] = true
				out = append(out, r)
			}
		}
		if !page.HasMore || len(page.Recipes) == 0 {
			return out, nil
		}
		q.Offset += len(page.Recipes)
	}
}

func (c *Client) listPage(ctx context.Context, q recipes.Query) (*dto.RecipeListResponse, error) {
	params := url.Values{}
	if q.OwnerID != "" {
		params.Set("owner", q.OwnerID)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	path := "/api/recipes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp dto.RecipeListResponse
	if err := c.do(ctx, storeCall, "GET", path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Get(ctx context.Context, id string) (recipes.Recipe, error) {
	var r recipes.Recipe
	if err := c.do(ctx, storeCall, "GET", recipePath(id), "", nil, &r); err != nil {
		return recipes.Recipe{}, err
	}
	return r, nil
}

// authorized returns the access token or apperr.ErrUnauthorized when nobody
// is signed in.
func (c *Client) authorized() (string, error) {
	token := c.accessToken()
	if token == "" {
		return "", apperr.ErrUnauthorized
	}
	return token, nil
}

func (c *Client) Insert(ctx context.Context, f recipes.Fields) (recipes.Recipe, error) {
	token, err := c.authorized()
	if err != nil {
		return recipes.Recipe{}, err
	}
	var r recipes.Recipe
	if err := c.do(ctx, storeCall, "POST", "/api/recipes", token, f, &r); err != nil {
		return recipes.Recipe{}, err
	}
	return r, nil
}

func (c *Client) InsertBatch(ctx context.Context, fs []recipes.Fields) ([]recipes.Recipe, error) {
	token, err := c.authorized()
	if err != nil {
		return nil, err
	}
	var resp dto.RecipeListResponse
	if err := c.do(ctx, storeCall, "POST", "/api/recipes/batch", token, dto.BatchRecipeRequest{Recipes: fs}, &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

func (c *Client) Update(ctx context.Context, id string, f recipes.Fields) (recipes.Recipe, error) {
	token, err := c.authorized()
	if err != nil {
		return recipes.Recipe{}, err
	}
	var r recipes.Recipe
	if err := c.do(ctx, storeCall, "PUT", recipePath(id), token, f, &r); err != nil {
		return recipes.Recipe{}, err
	}
	return r, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	token, err := c.authorized()
	if err != nil {
		return err
	}
	return c.do(ctx, storeCall, "DELETE", recipePath(id), token, nil, nil)
}
