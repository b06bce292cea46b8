package testhelpers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forkful/backend/internal/model"
)

// SetupTestDatabase opens an in-memory sqlite database with the full schema.
// TranslateError matches the production connection so unique-constraint
// violations surface as gorm.ErrDuplicatedKey in tests too. The pool is
// pinned to one connection because each sqlite :memory: connection is its
// own database.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Follow{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeIngredient{},
		&model.FavoriteRecipe{},
		&model.ShoppingCartRecipe{},
	))
	return db
}

// SeedCatalog inserts a small tag and ingredient catalog and returns it.
func SeedCatalog(t *testing.T, db *gorm.DB) ([]model.Tag, []model.Ingredient) {
	t.Helper()

	tags := []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
		{Name: "Dessert", Slug: "dessert"},
	}
	require.NoError(t, db.Create(&tags).Error)

	ingredients := []model.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
		{Name: "Egg", MeasurementUnit: "pc"},
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: "Potato", MeasurementUnit: "g"},
	}
	require.NoError(t, db.Create(&ingredients).Error)

	return tags, ingredients
}

// CreateUser inserts a user with a bcrypt-hashed password "password123".
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hashed),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
