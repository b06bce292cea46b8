package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

const (
	MinAmount = 1
	MaxAmount = 32767 // smallint; the line-item column cannot hold more

	MinCookingTime = 1
	MaxCookingTime = 1000
)

// RecipeService is the recipe authoring engine: it validates a flat payload
// and persists the recipe, its tag set and its ingredient line-items as one
// transaction. Every read representation it returns is re-read from the
// database after the write, never assembled from the payload.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmountInput is one {id, amount} entry of a create/update payload.
type IngredientAmountInput struct {
	ID     uint
	Amount int
}

// CreateRecipeInput carries the full payload for a new recipe. All fields
// are required; Tags and Ingredients must be non-empty and duplicate-free.
type CreateRecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Tags        []uint
	Ingredients []IngredientAmountInput
}

// UpdateRecipeInput is a partial payload: nil fields are left untouched.
// A non-nil Tags or Ingredients slice wholesale-replaces the stored set.
type UpdateRecipeInput struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Tags        []uint
	Ingredients []IngredientAmountInput
}

// CreateRecipe validates the payload, then inserts the recipe row with a
// fresh unique short-code, its tag associations and its line-items in one
// transaction. On any failure nothing is persisted.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in CreateRecipeInput) (*RecipeDetail, error) {
	if err := validateIngredients(in.Ingredients); err != nil {
		return nil, err
	}
	if err := validateTags(in.Tags); err != nil {
		return nil, err
	}
	if err := validateCookingTime(in.CookingTime); err != nil {
		return nil, err
	}

	recipe := model.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		Image:       in.Image,
		CookingTime: in.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}
		if err := insertWithShortCode(tx, &recipe); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return fmt.Errorf("attach tags: %w", err)
		}
		return insertLineItems(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID, &authorID)
}

// UpdateRecipe applies a partial update. The service re-checks authorship
// itself; handlers only translate ErrNotRecipeAuthor to a status code.
// Author and short-code are never altered.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, requesterID uuid.UUID, in UpdateRecipeInput) (*RecipeDetail, error) {
	if in.Ingredients != nil {
		if err := validateIngredients(in.Ingredients); err != nil {
			return nil, err
		}
	}
	if in.Tags != nil {
		if err := validateTags(in.Tags); err != nil {
			return nil, err
		}
	}
	if in.CookingTime != nil {
		if err := validateCookingTime(*in.CookingTime); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != requesterID {
			return ErrNotRecipeAuthor
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Text != nil {
			updates["text"] = *in.Text
		}
		if in.Image != nil {
			updates["image"] = *in.Image
		}
		if in.CookingTime != nil {
			updates["cooking_time"] = *in.CookingTime
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.Tags != nil {
			tags, err := loadTags(tx, in.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("replace tags: %w", err)
			}
		}

		if in.Ingredients != nil {
			if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := insertLineItems(tx, recipe.ID, in.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipeDetail(ctx, recipeID, &requesterID)
}

// DeleteRecipe removes a recipe with its tag associations, line-items and
// favorite/cart memberships. Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, requesterID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		if recipe.AuthorID != requesterID {
			return ErrNotRecipeAuthor
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.ShoppingCartRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func validateIngredients(items []IngredientAmountInput) error {
	if len(items) == 0 {
		return validationErrorf("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return validationErrorf("ingredients", "duplicate ingredient id %d", item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Amount < MinAmount || item.Amount > MaxAmount {
			return validationErrorf("ingredients", "amount for ingredient %d must be between %d and %d", item.ID, MinAmount, MaxAmount)
		}
	}
	return nil
}

func validateTags(ids []uint) error {
	if len(ids) == 0 {
		return validationErrorf("tags", "at least one tag is required")
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return validationErrorf("tags", "duplicate tag id %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateCookingTime(minutes int) error {
	if minutes < MinCookingTime || minutes > MaxCookingTime {
		return validationErrorf("cooking_time", "must be between %d and %d minutes", MinCookingTime, MaxCookingTime)
	}
	return nil
}

// loadTags resolves tag ids to rows and fails with a ValidationError naming
// the first id that does not exist.
func loadTags(tx *gorm.DB, ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		found := make(map[uint]struct{}, len(tags))
		for _, t := range tags {
			found[t.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, validationErrorf("tags", "tag %d does not exist", id)
			}
		}
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, items []IngredientAmountInput) error {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	var existing []uint
	if err := tx.Model(&model.Ingredient{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return err
	}
	if len(existing) != len(ids) {
		found := make(map[uint]struct{}, len(existing))
		for _, id := range existing {
			found[id] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return validationErrorf("ingredients", "ingredient %d does not exist", id)
			}
		}
	}
	return nil
}

func insertLineItems(tx *gorm.DB, recipeID uuid.UUID, items []IngredientAmountInput) error {
	rows := make([]model.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert line-items: %w", err)
	}
	return nil
}

// insertWithShortCode inserts the recipe row, regenerating the short-code on
// a unique-constraint violation. Each attempt runs under a savepoint so a
// failed insert does not poison the surrounding transaction. The pre-insert
// code is never trusted: uniqueness is what the constraint says it is.
func insertWithShortCode(tx *gorm.DB, recipe *model.Recipe) error {
	for length := ShortCodeLength; length <= shortCodeMaxLength; length++ {
		for attempt := 0; attempt < shortCodeAttemptsPerLength; attempt++ {
			recipe.ShortCode = NewShortCode(length)
			if err := tx.SavePoint("short_code").Error; err != nil {
				return err
			}
			err := tx.Create(recipe).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			if err := tx.RollbackTo("short_code").Error; err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("short-code space exhausted after %d attempts", (shortCodeMaxLength-ShortCodeLength+1)*shortCodeAttemptsPerLength)
}
