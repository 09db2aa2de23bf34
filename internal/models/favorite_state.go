package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteState tracks the two membership flags a user can set on a recipe.
// The row is created lazily on the first toggle and from then on only
// flipped; it goes away with its recipe. At most one row exists per
// (user, recipe) pair.
type FavoriteState struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_states_user_recipe" json:"user_id"`
	RecipeID     uint      `gorm:"not null;uniqueIndex:idx_favorite_states_user_recipe" json:"recipe_id"`
	Favorite     bool      `gorm:"not null;default:false" json:"favorite"`
	ShoppingCart bool      `gorm:"not null;default:false" json:"shopping_cart"`
}

func (FavoriteState) TableName() string {
	return "favorite_states"
}
