package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vladimir-spb/foodgram-backend/internal/models"
)

// Flag selects which membership marker a toggle operates on. The two flags
// are fully independent: toggling one never touches the other.
type Flag string

const (
	FlagFavorite     Flag = "favorite"
	FlagShoppingCart Flag = "shopping_cart"
)

// RecipeSummary is the short recipe view returned by a successful toggle-on
// and by subscription listings.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// FavoriteService owns the FavoriteState rows: one per (user, recipe) pair,
// created lazily on the first toggle and only ever flipped afterwards.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add sets the given flag for (user, recipe). The recipe must exist. Setting
// a flag that is already set fails with ErrAlreadyAdded; the check and the
// write run in one transaction so concurrent toggles serialize at the row.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, recipeID uint, flag Flag) (*RecipeSummary, error) {
	var recipe models.Recipe

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		state := models.FavoriteState{UserID: userID, RecipeID: recipeID}
		if err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			FirstOrCreate(&state).Error; err != nil {
			return err
		}

		switch flag {
		case FlagFavorite:
			if state.Favorite {
				return ErrAlreadyAdded
			}
			state.Favorite = true
		case FlagShoppingCart:
			if state.ShoppingCart {
				return ErrAlreadyAdded
			}
			state.ShoppingCart = true
		default:
			return fmt.Errorf("unknown toggle flag %q", flag)
		}

		return tx.Save(&state).Error
	})
	if err != nil {
		return nil, err
	}

	return &RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

// Remove clears the given flag for (user, recipe). Clearing a flag that is
// not set, or toggling a pair that has no state row, fails with ErrNotPresent.
func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, recipeID uint, flag Flag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		var state models.FavoriteState
		if err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			First(&state).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotPresent
			}
			return err
		}

		switch flag {
		case FlagFavorite:
			if !state.Favorite {
				return ErrNotPresent
			}
			state.Favorite = false
		case FlagShoppingCart:
			if !state.ShoppingCart {
				return ErrNotPresent
			}
			state.ShoppingCart = false
		default:
			return fmt.Errorf("unknown toggle flag %q", flag)
		}

		return tx.Save(&state).Error
	})
}

// IsFavorited reports whether the user has the recipe in favorites.
// The anonymous user (uuid.Nil) always gets false, without error.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID uuid.UUID, recipeID uint) bool {
	return s.flagValue(ctx, userID, recipeID, FlagFavorite)
}

// IsInShoppingCart reports whether the user has the recipe in the cart.
func (s *FavoriteService) IsInShoppingCart(ctx context.Context, userID uuid.UUID, recipeID uint) bool {
	return s.flagValue(ctx, userID, recipeID, FlagShoppingCart)
}

func (s *FavoriteService) flagValue(ctx context.Context, userID uuid.UUID, recipeID uint, flag Flag) bool {
	if userID == uuid.Nil {
		return false
	}
	var state models.FavoriteState
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&state).Error; err != nil {
		return false
	}
	if flag == FlagFavorite {
		return state.Favorite
	}
	return state.ShoppingCart
}
