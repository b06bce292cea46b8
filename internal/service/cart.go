package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

// CartService maintains favorite and shopping-cart membership and exports
// the shopping list. Both relations share the same row shape, so the
// add/remove logic is generic over the relation model.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// ShoppingListItem is one aggregated line of the shopping list: the total
// amount of an ingredient across every recipe in the cart.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

func (s *CartService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeShort, error) {
	return s.addRelation(ctx, userID, recipeID, &model.FavoriteRecipe{UserID: userID, RecipeID: recipeID})
}

func (s *CartService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRelation(ctx, userID, recipeID, &model.FavoriteRecipe{})
}

func (s *CartService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeShort, error) {
	return s.addRelation(ctx, userID, recipeID, &model.ShoppingCartRecipe{UserID: userID, RecipeID: recipeID})
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.removeRelation(ctx, userID, recipeID, &model.ShoppingCartRecipe{})
}

func (s *CartService) addRelation(ctx context.Context, userID, recipeID uuid.UUID, row interface{}) (*RecipeShort, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInList
		}
		return nil, err
	}

	return &RecipeShort{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *CartService) removeRelation(ctx context.Context, userID, recipeID uuid.UUID, relationModel interface{}) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(relationModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInList
	}
	return nil
}

// ShoppingList sums line-item amounts per ingredient across all recipes in
// the user's cart, ordered by ingredient name.
func (s *CartService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_recipes ON shopping_cart_recipes.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_recipes.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ShoppingListPDF renders the aggregated shopping list as a one-column PDF.
func (s *CartService) ShoppingListPDF(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := s.ShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Shopping list", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, "Shopping list", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	if len(items) == 0 {
		pdf.CellFormat(0, 8, "The shopping cart is empty.", "", 1, "L", false, 0, "")
	}
	for _, item := range items {
		line := fmt.Sprintf("- %s: %d %s", item.Name, item.Total, item.MeasurementUnit)
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render shopping list pdf: %w", err)
	}
	return buf.Bytes(), nil
}
