package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Vladimir-spb/foodgram-backend/internal/models"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

type AuthorView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           AuthorView             `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	CreatedAt        time.Time              `json:"created_at"`
}

// buildRecipeView assembles the full recipe representation for the given
// viewer; uuid.Nil viewers see all membership flags as false.
func buildRecipeView(
	ctx context.Context,
	recipe *models.Recipe,
	viewer uuid.UUID,
	favorites *service.FavoriteService,
	follows *service.FollowService,
) RecipeView {
	ingredients := make([]RecipeIngredientView, 0, len(recipe.Ingredients))
	for _, ri := range recipe.Ingredients {
		view := RecipeIngredientView{
			ID:     ri.IngredientID,
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			view.Name = ri.Ingredient.Name
			view.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, view)
	}

	author := AuthorView{ID: recipe.AuthorID}
	if recipe.Author != nil {
		author.Username = recipe.Author.Username
		author.FirstName = recipe.Author.FirstName
		author.LastName = recipe.Author.LastName
		author.Email = recipe.Author.Email
	}
	author.IsSubscribed = follows.IsSubscribed(ctx, viewer, recipe.AuthorID)

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeView{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorites.IsFavorited(ctx, viewer, recipe.ID),
		IsInShoppingCart: favorites.IsInShoppingCart(ctx, viewer, recipe.ID),
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}
}
