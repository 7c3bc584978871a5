package service

import (
	"context"
	"testing"

	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusStoreLoadCorpus(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	s := testhelpers.SeedSampleCorpus(t, db)

	corpus, err := NewCorpusStore(db).LoadCorpus(context.Background())
	require.NoError(t, err)

	assert.Len(t, corpus.Ingredients, 6)
	require.Len(t, corpus.Recipes, 4)
	assert.Equal(t, []matching.SubstitutionPair{{IngredientID: s.Butter, SubstituteID: s.Margarine}}, corpus.Substitutions)

	var omelette matching.Recipe
	for _, r := range corpus.Recipes {
		if r.ID == s.Omelette {
			omelette = r
		}
	}
	assert.Equal(t, "Omelette", omelette.Name)
	assert.Equal(t, "French", omelette.Cuisine)
	assert.Equal(t, []matching.Requirement{
		{IngredientID: s.Egg, Name: "egg", Quantity: 3},
		{IngredientID: s.Sugar, Name: "sugar", Quantity: 1, Unit: "tsp", Optional: true},
	}, omelette.Requirements)
}

func TestCorpusStoreSchemaMismatchIsAnError(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	testhelpers.SeedSampleCorpus(t, db)
	require.NoError(t, db.Exec("DROP TABLE ingredient_substitutions").Error)

	_, err := NewCorpusStore(db).LoadCorpus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "substitutions")
}

func TestEngineOverCorpusStore(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	s := testhelpers.SeedSampleCorpus(t, db)

	engine, err := matching.NewEngine(context.Background(), NewCorpusStore(db))
	require.NoError(t, err)

	results, err := engine.Suggest(context.Background(), matching.Request{
		Ingredients: []string{"Egg "},
		MaxResults:  20,
		AllowSubst:  true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, s.Omelette, results[0].RecipeID)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestEngineRefusesEmptyStore(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	_, err := matching.NewEngine(context.Background(), NewCorpusStore(db))
	assert.ErrorIs(t, err, matching.ErrEmptyCorpus)
}
