package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladimir-spb/foodgram-backend/internal/models"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

func recipePayload(ingredientID, tagID uint) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 15,
		"ingredients": []map[string]interface{}{
			{"id": ingredientID, "amount": 200},
		},
		"tags": []uint{tagID},
	}
}

func TestCreateRecipeEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Pancakes", view.Name)
	assert.Len(t, view.Ingredients, 1)
	assert.Equal(t, "flour", view.Ingredients[0].Name)
	assert.Equal(t, 200, view.Ingredients[0].Amount)
	assert.Len(t, view.Tags, 1)
	assert.False(t, view.IsFavorited)
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	payload := recipePayload(ingredient.ID, tag.ID)
	payload["cooking_time"] = 0

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error map[string][]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "cooking_time")
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", "",
		recipePayload(ingredient.ID, tag.ID))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateRecipeForbiddenForNonAuthor(t *testing.T) {
	env := setupTestEnv(t)
	_, authorToken := env.createUserAndToken(t, "author")
	_, otherToken := env.createUserAndToken(t, "other")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", authorToken,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var view RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	payload := recipePayload(ingredient.ID, tag.ID)
	payload["name"] = "Stolen pancakes"
	w = env.performRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/recipes/%d", view.ID), otherToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateRenameCollisionRejected(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	second := recipePayload(ingredient.ID, tag.ID)
	second["name"] = "Waffles"
	w = env.performRequest(t, http.MethodPost, "/api/recipes", token, second)
	require.Equal(t, http.StatusCreated, w.Code)

	var view RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	// Renaming the second recipe onto the first one's name must conflict.
	rename := recipePayload(ingredient.ID, tag.ID)
	w = env.performRequest(t, http.MethodPatch,
		fmt.Sprintf("/api/recipes/%d", view.ID), token, rename)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestListRecipesAnonymous(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.performRequest(t, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int64        `json:"count"`
		Results []RecipeView `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Count)
	require.Len(t, body.Results, 1)
	assert.False(t, body.Results[0].IsFavorited)
	assert.False(t, body.Results[0].IsInShoppingCart)
}

func TestFavoriteEndpointToggle(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var view RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	path := fmt.Sprintf("/api/recipes/%d/favorite", view.ID)

	w = env.performRequest(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var summary service.RecipeSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, view.ID, summary.ID)
	assert.Equal(t, "Pancakes", summary.Name)

	// second add conflicts
	w = env.performRequest(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the flag shows up in the detail view
	w = env.performRequest(t, http.MethodGet,
		fmt.Sprintf("/api/recipes/%d", view.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.True(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)

	w = env.performRequest(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// removing again conflicts
	w = env.performRequest(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShoppingCartEndpointMissingRecipe(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")

	w := env.performRequest(t, http.MethodPost, "/api/recipes/9999/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var view RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	w = env.performRequest(t, http.MethodPost,
		fmt.Sprintf("/api/recipes/%d/shopping_cart", view.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.performRequest(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"), "body should be a PDF document")
}

func TestDownloadShoppingCartRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.performRequest(t, http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteRecipeRemovesIt(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "chef")
	ingredient, tag := env.seedCatalog(t)

	w := env.performRequest(t, http.MethodPost, "/api/recipes", token,
		recipePayload(ingredient.ID, tag.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var view RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	w = env.performRequest(t, http.MethodDelete,
		fmt.Sprintf("/api/recipes/%d", view.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
