package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

// TagView mirrors a catalog tag in responses.
type TagView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// IngredientLineView is one line-item with name and unit denormalized from
// the referenced ingredient; Amount comes from the line-item itself.
type IngredientLineView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// AuthorView is the nested author summary of a recipe.
type AuthorView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeDetail is the canonical read representation of a persisted recipe.
type RecipeDetail struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []TagView            `json:"tags"`
	Author           AuthorView           `json:"author"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	CreatedAt        time.Time            `json:"created_at"`
}

// RecipeShort is the compact representation used in follow listings and
// favorite/cart responses.
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// RecipeFilter narrows ListRecipes. Zero values mean "no filter".
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Page             int
}

// GetRecipeDetail builds the read representation from current database
// state. Both membership flags are false when viewer is nil.
func (s *RecipeService) GetRecipeDetail(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*RecipeDetail, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return s.buildDetail(ctx, &recipe, viewer)
}

// GetRecipeByShortCode resolves a short link to its recipe id.
func (s *RecipeService) GetRecipeByShortCode(ctx context.Context, code string) (uuid.UUID, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).Select("id").First(&recipe, "short_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrRecipeNotFound
		}
		return uuid.Nil, err
	}
	return recipe.ID, nil
}

// GetShortCode returns the stored short-code of a recipe.
func (s *RecipeService) GetShortCode(ctx context.Context, recipeID uuid.UUID) (string, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).Select("short_code").First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}
	return recipe.ShortCode, nil
}

// ListRecipes returns a page of recipe details, newest first, plus the total
// count before pagination. The favorited/cart filters require a viewer and
// are ignored without one, matching the original behavior.
func (s *RecipeService) ListRecipes(ctx context.Context, f RecipeFilter, viewer *uuid.UUID) ([]*RecipeDetail, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Recipe{})

	if f.Author != nil {
		query = query.Where("recipes.author_id = ?", *f.Author)
	}
	if len(f.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
	}
	if viewer != nil {
		if f.IsFavorited {
			query = query.
				Joins("JOIN favorite_recipes ON favorite_recipes.recipe_id = recipes.id").
				Where("favorite_recipes.user_id = ?", *viewer)
		}
		if f.IsInShoppingCart {
			query = query.
				Joins("JOIN shopping_cart_recipes ON shopping_cart_recipes.recipe_id = recipes.id").
				Where("shopping_cart_recipes.user_id = ?", *viewer)
		}
	}

	// the tag join multiplies rows, so the count runs on distinct recipe
	// ids and the row fetch collapses duplicates by grouping on the key
	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("recipes.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if len(f.TagSlugs) > 0 {
		query = query.Group("recipes.id")
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
		if f.Page > 1 {
			query = query.Offset((f.Page - 1) * f.Limit)
		}
	}

	var recipes []model.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	details := make([]*RecipeDetail, 0, len(recipes))
	for i := range recipes {
		detail, err := s.buildDetail(ctx, &recipes[i], viewer)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, detail)
	}
	return details, total, nil
}

func (s *RecipeService) buildDetail(ctx context.Context, recipe *model.Recipe, viewer *uuid.UUID) (*RecipeDetail, error) {
	detail := &RecipeDetail{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
		Author: AuthorView{
			ID:        recipe.Author.ID,
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
			Avatar:    recipe.Author.Avatar,
		},
		Tags:        make([]TagView, 0, len(recipe.Tags)),
		Ingredients: make([]IngredientLineView, 0, len(recipe.Ingredients)),
	}

	for _, tag := range recipe.Tags {
		detail.Tags = append(detail.Tags, TagView{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}
	for _, item := range recipe.Ingredients {
		detail.Ingredients = append(detail.Ingredients, IngredientLineView{
			ID:              item.IngredientID,
			Name:            item.Ingredient.Name,
			MeasurementUnit: item.Ingredient.MeasurementUnit,
			Amount:          item.Amount,
		})
	}

	if viewer != nil {
		db := s.db.WithContext(ctx)

		var favorites int64
		if err := db.Model(&model.FavoriteRecipe{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&favorites).Error; err != nil {
			return nil, err
		}
		detail.IsFavorited = favorites > 0

		var inCart int64
		if err := db.Model(&model.ShoppingCartRecipe{}).
			Where("user_id = ? AND recipe_id = ?", *viewer, recipe.ID).
			Count(&inCart).Error; err != nil {
			return nil, err
		}
		detail.IsInShoppingCart = inCart > 0

		var follows int64
		if err := db.Model(&model.Follow{}).
			Where("user_id = ? AND following_id = ?", *viewer, recipe.AuthorID).
			Count(&follows).Error; err != nil {
			return nil, err
		}
		detail.Author.IsSubscribed = follows > 0
	}

	return detail, nil
}
