package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/testhelpers"
)

func TestListTags(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	tags, _ := testhelpers.SeedCatalog(t, db)
	catalog := service.NewCatalogService(db)

	got, err := catalog.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(tags))

	tag, err := catalog.GetTag(context.Background(), tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", tag.Name)
	assert.Equal(t, "breakfast", tag.Slug)

	_, err = catalog.GetTag(context.Background(), 9999)
	assert.ErrorIs(t, err, service.ErrTagNotFound)
}

func TestListIngredientsNameFilter(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	_, ingredients := testhelpers.SeedCatalog(t, db)
	catalog := service.NewCatalogService(db)

	all, err := catalog.ListIngredients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, len(ingredients))

	// substring match is case-insensitive
	matches, err := catalog.ListIngredients(context.Background(), "fl")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Flour", matches[0].Name)

	none, err := catalog.ListIngredients(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetIngredient(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	_, ingredients := testhelpers.SeedCatalog(t, db)
	catalog := service.NewCatalogService(db)

	got, err := catalog.GetIngredient(context.Background(), ingredients[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)
	assert.Equal(t, "ml", got.MeasurementUnit)

	_, err = catalog.GetIngredient(context.Background(), 9999)
	assert.ErrorIs(t, err, service.ErrIngredientNotFound)
}
