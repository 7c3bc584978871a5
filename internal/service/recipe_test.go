package service

import (
	"context"
	"testing"

	"github.com/pageza/pantrymatch/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	s := testhelpers.SeedSampleCorpus(t, db)
	svc := NewRecipeService(db)

	detail, err := svc.GetRecipe(context.Background(), s.Pancakes)
	require.NoError(t, err)

	assert.Equal(t, s.Pancakes, detail.ID)
	assert.Equal(t, "Pancakes", detail.Name)
	assert.Equal(t, "American", detail.Cuisine)
	assert.Equal(t, 2, detail.Servings)
	assert.Equal(t, "Combine and cook.", detail.Instructions)
	assert.Equal(t, []RecipeIngredient{
		{Name: "egg", Qty: 2},
		{Name: "flour", Qty: 200, Unit: "g"},
	}, detail.Ingredients)
}

func TestGetRecipeNotFound(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	testhelpers.SeedSampleCorpus(t, db)

	_, err := NewRecipeService(db).GetRecipe(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestListRecipesOrderedByName(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	s := testhelpers.SeedSampleCorpus(t, db)

	list, err := NewRecipeService(db).ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)

	names := make([]string, 0, len(list))
	for _, r := range list {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Butter Toast", "Omelette", "Pancakes", "Salted Water"}, names)
	assert.Equal(t, RecipeSummary{ID: s.Omelette, Name: "Omelette", Cuisine: "French", Servings: 2}, list[1])
}

func TestListRecipesEmpty(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	list, err := NewRecipeService(db).ListRecipes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
