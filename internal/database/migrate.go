package database

import (
	"gorm.io/gorm"

	"github.com/Vladimir-spb/foodgram-backend/internal/models"
)

// AutoMigrate creates or updates the full schema. The join tables are
// migrated explicitly so their composite unique indexes exist before any
// toggle or replace operation runs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.FavoriteState{},
	)
}
