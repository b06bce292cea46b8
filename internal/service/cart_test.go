package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/testhelpers"
)

func TestFavoriteLifecycle(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewCartService(f.db)
	viewer := testhelpers.CreateUser(t, f.db, "viewer")

	created, err := f.svc.CreateRecipe(context.Background(), f.author.ID, f.validInput())
	require.NoError(t, err)

	short, err := cart.AddFavorite(context.Background(), viewer.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, short.ID)
	assert.Equal(t, created.Name, short.Name)

	_, err = cart.AddFavorite(context.Background(), viewer.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyInList)

	detail, err := f.svc.GetRecipeDetail(context.Background(), created.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsFavorited)

	require.NoError(t, cart.RemoveFavorite(context.Background(), viewer.ID, created.ID))
	assert.ErrorIs(t, cart.RemoveFavorite(context.Background(), viewer.ID, created.ID), service.ErrNotInList)

	detail, err = f.svc.GetRecipeDetail(context.Background(), created.ID, &viewer.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsFavorited)
}

func TestCartLifecycle(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewCartService(f.db)
	viewer := testhelpers.CreateUser(t, f.db, "viewer")

	created, err := f.svc.CreateRecipe(context.Background(), f.author.ID, f.validInput())
	require.NoError(t, err)

	_, err = cart.AddToCart(context.Background(), viewer.ID, created.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), viewer.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyInList)

	// the same recipe can still be favorited; the relations are independent
	_, err = cart.AddFavorite(context.Background(), viewer.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveFromCart(context.Background(), viewer.ID, created.ID))
	assert.ErrorIs(t, cart.RemoveFromCart(context.Background(), viewer.ID, created.ID), service.ErrNotInList)
}

func TestAddRelationUnknownRecipe(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewCartService(f.db)
	viewer := testhelpers.CreateUser(t, f.db, "viewer")

	_, err := cart.AddFavorite(context.Background(), viewer.ID, [16]byte{7})
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	_, err = cart.AddToCart(context.Background(), viewer.ID, [16]byte{7})
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestShoppingListAggregation(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewCartService(f.db)
	viewer := testhelpers.CreateUser(t, f.db, "viewer")

	pancakes := f.validInput()
	pancakes.Ingredients = []service.IngredientAmountInput{
		{ID: f.ingredients[0].ID, Amount: 200}, // Flour
		{ID: f.ingredients[1].ID, Amount: 300}, // Milk
	}
	first, err := f.svc.CreateRecipe(context.Background(), f.author.ID, pancakes)
	require.NoError(t, err)

	bread := f.validInput()
	bread.Name = "Bread"
	bread.Ingredients = []service.IngredientAmountInput{
		{ID: f.ingredients[0].ID, Amount: 500}, // Flour again
		{ID: f.ingredients[3].ID, Amount: 10},  // Salt
	}
	second, err := f.svc.CreateRecipe(context.Background(), f.author.ID, bread)
	require.NoError(t, err)

	_, err = cart.AddToCart(context.Background(), viewer.ID, first.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), viewer.ID, second.ID)
	require.NoError(t, err)

	items, err := cart.ShoppingList(context.Background(), viewer.ID)
	require.NoError(t, err)

	// shared ingredients are summed, and output is sorted by name
	require.Len(t, items, 3)
	assert.Equal(t, service.ShoppingListItem{Name: "Flour", MeasurementUnit: "g", Total: 700}, items[0])
	assert.Equal(t, service.ShoppingListItem{Name: "Milk", MeasurementUnit: "ml", Total: 300}, items[1])
	assert.Equal(t, service.ShoppingListItem{Name: "Salt", MeasurementUnit: "g", Total: 10}, items[2])
}

func TestShoppingListScopedToUser(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewCartService(f.db)
	viewer := testhelpers.CreateUser(t, f.db, "viewer")
	other := testhelpers.CreateUser(t, f.db, "other")

	created, err := f.svc.CreateRecipe(context.Background(), f.author.ID, f.validInput())
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), other.ID, created.ID)
	require.NoError(t, err)

	items, err := cart.ShoppingList(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShoppingListPDF(t *testing.T) {
	f := setupRecipeTest(t)
	cart := service.NewCartService(f.db)
	viewer := testhelpers.CreateUser(t, f.db, "viewer")

	created, err := f.svc.CreateRecipe(context.Background(), f.author.ID, f.validInput())
	require.NoError(t, err)
	_, err = cart.AddToCart(context.Background(), viewer.ID, created.ID)
	require.NoError(t, err)

	pdf, err := cart.ShoppingListPDF(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestShoppingListPDFEmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cart := service.NewCartService(db)
	viewer := testhelpers.CreateUser(t, db, "viewer")

	pdf, err := cart.ShoppingListPDF(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
