package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartIngredientRow is one (recipe, ingredient) occurrence pulled from the
// user's shopping cart, before aggregation.
type CartIngredientRow struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListLine is one aggregated entry of the shopping list report.
type ShoppingListLine struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	Unit     string `json:"measurement_unit"`
}

// ShoppingListService builds the aggregated shopping list for a user. It is
// read-only: it never writes anything.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// BuildShoppingList returns the deduplicated, summed ingredient list across
// every recipe the user has in the shopping cart. A user with an empty cart
// gets an empty list, not an error.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListLine, error) {
	rows, err := s.cartRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AggregateCart(rows), nil
}

// cartRows loads every ingredient occurrence from recipes whose FavoriteState
// has shopping_cart set for the user. Row order follows insertion order of
// the recipe_ingredients table so the report ordering is deterministic.
func (s *ShoppingListService) cartRows(ctx context.Context, userID uuid.UUID) ([]CartIngredientRow, error) {
	var rows []CartIngredientRow
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("recipe_ingredients.ingredient_id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN favorite_states ON favorite_states.recipe_id = recipe_ingredients.recipe_id").
		Where("favorite_states.user_id = ? AND favorite_states.shopping_cart = ?", userID, true).
		Order("recipe_ingredients.id").
		Scan(&rows).Error
	return rows, err
}

// AggregateCart groups the rows strictly by ingredient id, sums amounts, and
// keeps the first-seen position of each distinct ingredient. Display names
// are capitalized after grouping, so two different ingredients that share a
// display name stay separate lines.
func AggregateCart(rows []CartIngredientRow) []ShoppingListLine {
	lines := []ShoppingListLine{}
	position := make(map[uint]int)

	for _, row := range rows {
		if idx, seen := position[row.IngredientID]; seen {
			lines[idx].Amount += row.Amount
			continue
		}
		position[row.IngredientID] = len(lines)
		lines = append(lines, ShoppingListLine{
			Position: len(lines) + 1,
			Name:     capitalize(row.Name),
			Amount:   row.Amount,
			Unit:     row.MeasurementUnit,
		})
	}
	return lines
}

// FormatLines renders the report lines for export: "1. Name - 500 g".
func FormatLines(lines []ShoppingListLine) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fmt.Sprintf("%d. %s - %d %s", line.Position, line.Name, line.Amount, line.Unit)
	}
	return out
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
