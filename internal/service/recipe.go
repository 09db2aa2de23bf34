package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vladimir-spb/foodgram-backend/internal/models"
)

// IngredientAmount is one (ingredient, amount) pair of a recipe payload.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the payload for creating or updating a recipe. Image carries
// a data-URI base64 image and is handled by the image service before the
// recipe is persisted.
type RecipeInput struct {
	Name        string             `json:"name" binding:"required"`
	Text        string             `json:"text" binding:"required"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time"`
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uint             `json:"tags"`
}

// RecipeFilter narrows the recipe listing.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uuid.UUID
	IsFavorited      bool
	IsInShoppingCart bool
	// RequestUser scopes the membership filters; uuid.Nil means anonymous
	// and makes both membership filters match nothing.
	RequestUser uuid.UUID
	Page        int
	Limit       int
}

// maxPageSize bounds the listing page size regardless of what the query
// string asks for.
const maxPageSize = 100

type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ValidatePayload checks a recipe payload against the catalogs and returns
// a field-keyed ValidationError on the first broken rule set. Nothing is
// written here; create and update only run after validation passes.
func (s *RecipeService) ValidatePayload(ctx context.Context, in *RecipeInput) error {
	verr := newValidationError()

	if in.CookingTime < 1 {
		verr.add("cooking_time", "must be at least 1 minute")
	}

	if len(in.Ingredients) == 0 {
		verr.add("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uint]bool, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if item.Amount < 1 {
			verr.add("amount", fmt.Sprintf("ingredient %d: amount must be at least 1", item.ID))
		}
		if seenIngredients[item.ID] {
			verr.add("ingredients", fmt.Sprintf("ingredient %d is listed more than once", item.ID))
		}
		seenIngredients[item.ID] = true
	}

	if len(in.Tags) == 0 {
		verr.add("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]bool, len(in.Tags))
	for _, id := range in.Tags {
		if seenTags[id] {
			verr.add("tags", fmt.Sprintf("tag %d is listed more than once", id))
		}
		seenTags[id] = true
	}

	if !verr.ok() {
		return verr
	}

	// Catalog membership checks only run once the payload shape is sound.
	ingredientIDs := make([]uint, 0, len(seenIngredients))
	for id := range seenIngredients {
		ingredientIDs = append(ingredientIDs, id)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ingredientIDs) {
		verr.add("ingredients", "unknown ingredient id in payload")
	}

	tagIDs := make([]uint, 0, len(seenTags))
	for id := range seenTags {
		tagIDs = append(tagIDs, id)
	}
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(tagIDs) {
		verr.add("tags", "unknown tag id in payload")
	}

	if !verr.ok() {
		return verr
	}
	return nil
}

// Create validates the payload and persists the recipe with its ingredient
// and tag sets in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in *RecipeInput, imageURL string) (*models.Recipe, error) {
	if err := s.ValidatePayload(ctx, in); err != nil {
		return nil, err
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("name = ? AND author_id = ?", in.Name, authorID).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrDuplicateRecipe
	}

	recipe := models.Recipe{
		Name:        in.Name,
		AuthorID:    authorID,
		Text:        in.Text,
		ImageURL:    imageURL,
		CookingTime: in.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return ReplaceRecipeContents(tx, recipe.ID, in.Ingredients, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update validates the payload, replaces the recipe's ingredient and tag
// sets wholesale, and updates the scalar fields, all in one transaction.
func (s *RecipeService) Update(ctx context.Context, recipeID uint, in *RecipeInput, imageURL string) (*models.Recipe, error) {
	if err := s.ValidatePayload(ctx, in); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	// Renaming onto another recipe of the same author would hit the
	// (name, author) unique index; surface it as the conflict it is.
	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("name = ? AND author_id = ? AND id <> ?", in.Name, recipe.AuthorID, recipeID).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrDuplicateRecipe
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			Updates(updates).Error; err != nil {
			return err
		}
		return ReplaceRecipeContents(tx, recipeID, in.Ingredients, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// ReplaceRecipeContents clears the recipe's ingredient and tag association
// rows and bulk-inserts the new sets. It must run inside a transaction owned
// by the caller: partial application is a data-corruption bug.
func ReplaceRecipeContents(tx *gorm.DB, recipeID uint, ingredients []IngredientAmount, tagIDs []uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).
		Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).
		Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}

	rows := make([]models.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	tagRows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tagRows = append(tagRows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(tagRows) > 0 {
		if err := tx.Create(&tagRows).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a recipe with its author, ingredients and tags loaded.
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns a page of recipes, newest first, plus the total match count.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs),
		)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.IsFavorited {
		query = query.Where("recipes.id IN (?)", s.stateSubquery(filter.RequestUser, "favorite"))
	}
	if filter.IsInShoppingCart {
		query = query.Where("recipes.id IN (?)", s.stateSubquery(filter.RequestUser, "shopping_cart"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Order("recipes.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *RecipeService) stateSubquery(userID uuid.UUID, column string) *gorm.DB {
	return s.db.Table("favorite_states").
		Select("favorite_states.recipe_id").
		Where("favorite_states.user_id = ? AND favorite_states."+column+" = ?", userID, true)
}

// Delete removes a recipe together with its ingredient, tag and favorite
// state rows.
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.FavoriteState{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// CanModify reports whether the user may update or delete the recipe:
// its author, or an admin.
func (s *RecipeService) CanModify(ctx context.Context, userID uuid.UUID, recipe *models.Recipe) bool {
	if recipe.AuthorID == userID {
		return true
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}
