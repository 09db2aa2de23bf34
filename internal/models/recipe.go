package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:100;not null;uniqueIndex:idx_recipes_name_author" json:"name"`
	AuthorID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipes_name_author" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID" json:"-"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	ImageURL    string         `gorm:"size:255" json:"image"`
	CookingTime int            `gorm:"not null" json:"cooking_time"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;" json:"-"`
}

// RecipeIngredient rows are owned by their recipe: updates replace the
// whole set rather than diffing it.
type RecipeIngredient struct {
	ID           uint        `gorm:"primarykey" json:"-"`
	RecipeID     uint        `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int         `gorm:"not null" json:"amount"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

type RecipeTag struct {
	RecipeID uint `gorm:"primarykey"`
	TagID    uint `gorm:"primarykey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
