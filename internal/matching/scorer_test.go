package matching

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleCorpus: recipe 1 needs egg + flour, recipe 2 needs egg with optional
// sugar, recipe 3 needs butter (margarine may stand in), recipe 4 has only an
// optional ingredient.
func sampleCorpus() *Corpus {
	return &Corpus{
		Ingredients: []Ingredient{
			{ID: 1, Name: "egg"},
			{ID: 2, Name: "flour"},
			{ID: 3, Name: "sugar"},
			{ID: 4, Name: "butter"},
			{ID: 5, Name: "margarine"},
			{ID: 6, Name: "salt"},
		},
		Recipes: []Recipe{
			{ID: 1, Name: "Pancakes", Requirements: []Requirement{
				{IngredientID: 1, Name: "egg"},
				{IngredientID: 2, Name: "flour"},
			}},
			{ID: 2, Name: "Omelette", Requirements: []Requirement{
				{IngredientID: 1, Name: "egg"},
				{IngredientID: 3, Name: "sugar", Optional: true},
			}},
			{ID: 3, Name: "Butter Toast", Requirements: []Requirement{
				{IngredientID: 4, Name: "butter"},
			}},
			{ID: 4, Name: "Salted Water", Requirements: []Requirement{
				{IngredientID: 6, Name: "salt", Optional: true},
			}},
		},
		Substitutions: []SubstitutionPair{{IngredientID: 4, SubstituteID: 5}},
	}
}

func compileSample(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Compile(sampleCorpus(), DefaultNormalizer(), PolicyDirected)
	require.NoError(t, err)
	return snap
}

func byID(results []MatchResult) map[uint]MatchResult {
	out := make(map[uint]MatchResult, len(results))
	for _, r := range results {
		out[r.RecipeID] = r
	}
	return out
}

func TestSuggestScenarioEggOnly(t *testing.T) {
	snap := compileSample(t)

	results := snap.Suggest(Request{Ingredients: []string{"Egg "}, MaxResults: 10, AllowSubst: true})
	require.Len(t, results, 4)

	got := byID(results)
	assert.Equal(t, 1.0, got[2].Score)
	assert.Equal(t, 0.5, got[1].Score)
	assert.Equal(t, []string{"sugar"}, got[2].MissingOptional)
	assert.Equal(t, []string{"flour"}, got[1].MissingRequired)
	assert.Equal(t, []string{"egg"}, got[1].Present)

	pos := map[uint]int{}
	for i, r := range results {
		pos[r.RecipeID] = i
	}
	assert.Less(t, pos[2], pos[1], "omelette must outrank pancakes")
}

func TestSuggestEmptyInput(t *testing.T) {
	snap := compileSample(t)

	results := snap.Suggest(Request{MaxResults: 2, AllowSubst: true})
	require.Len(t, results, 2)
	// Only the recipe with no required ingredients scores above zero.
	assert.Equal(t, uint(4), results[0].RecipeID)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestSuggestSubstitutionToggle(t *testing.T) {
	snap := compileSample(t)

	off := byID(snap.Suggest(Request{Ingredients: []string{"margarine"}, MaxResults: 10, AllowSubst: false}))
	assert.Equal(t, []string{"butter"}, off[3].MissingRequired)
	assert.Equal(t, 0.0, off[3].Score)
	assert.Empty(t, off[3].Substitutions)

	on := byID(snap.Suggest(Request{Ingredients: []string{"margarine"}, MaxResults: 10, AllowSubst: true}))
	assert.Empty(t, on[3].MissingRequired)
	assert.Equal(t, []string{"butter"}, on[3].Present)
	assert.Equal(t, 1.0, on[3].Score)
	assert.Equal(t, []Substitution{{Required: "butter", UsedInstead: "margarine"}}, on[3].Substitutions)
}

func TestSuggestUnknownIngredientsIgnored(t *testing.T) {
	snap := compileSample(t)

	base := snap.Suggest(Request{Ingredients: []string{"egg"}, MaxResults: 10, AllowSubst: true})
	noisy := snap.Suggest(Request{Ingredients: []string{"egg", "unobtainium", "  ", "dragon fruit"}, MaxResults: 10, AllowSubst: true})
	assert.Equal(t, base, noisy)

	held, unknown := snap.Resolve([]string{"egg", "unobtainium"})
	assert.Equal(t, set(1), held)
	assert.Equal(t, []string{"unobtainium"}, unknown)
}

func TestSuggestOrderInvariant(t *testing.T) {
	snap := compileSample(t)
	input := []string{"flour", "Eggs", "margarine", "sugar", "pepper"}
	want := snap.Suggest(Request{Ingredients: input, MaxResults: 10, AllowSubst: true})

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, snap.Suggest(Request{Ingredients: shuffled, MaxResults: 10, AllowSubst: true}))
	}
}

func TestScoreMonotonicInAddedIngredients(t *testing.T) {
	snap := compileSample(t)
	full := []string{"egg", "flour", "sugar", "margarine", "salt"}

	for i := 0; i <= len(full); i++ {
		subset := byID(snap.Suggest(Request{Ingredients: full[:i], MaxResults: 10, AllowSubst: true}))
		all := byID(snap.Suggest(Request{Ingredients: full, MaxResults: 10, AllowSubst: true}))
		empty := byID(snap.Suggest(Request{MaxResults: 10, AllowSubst: true}))
		for id, r := range subset {
			assert.LessOrEqual(t, empty[id].Score, r.Score)
			assert.LessOrEqual(t, r.Score, all[id].Score)
		}
	}
}

func TestRankLimits(t *testing.T) {
	snap := compileSample(t)
	req := Request{Ingredients: []string{"egg"}, AllowSubst: true}

	for _, k := range []int{-3, 0} {
		req.MaxResults = k
		got := snap.Suggest(req)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	for k := 1; k <= 6; k++ {
		req.MaxResults = k
		assert.LessOrEqual(t, len(snap.Suggest(req)), k)
	}
	req.MaxResults = 100
	assert.Len(t, snap.Suggest(req), 4)
}

func TestRankTieBreaks(t *testing.T) {
	results := []MatchResult{
		{RecipeID: 5, Name: "b", Score: 1, MissingOptional: []string{"x"}},
		{RecipeID: 4, Name: "b", Score: 1},
		{RecipeID: 3, Name: "a", Score: 1},
		{RecipeID: 2, Name: "z", Score: 1, Present: []string{"p"}},
		{RecipeID: 1, Name: "a", Score: 0.5},
	}
	got := Rank(results, 10)

	ids := make([]uint, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.RecipeID)
	}
	assert.Equal(t, []uint{2, 3, 4, 5, 1}, ids)
}

func TestOptionalIngredientsDoNotPenalize(t *testing.T) {
	withOptional := Recipe{ID: 1, Name: "r", Requirements: []Requirement{
		{IngredientID: 1, Name: "egg"},
		{IngredientID: 3, Name: "sugar", Optional: true},
		{IngredientID: 6, Name: "salt", Optional: true},
	}}
	without := Recipe{ID: 1, Name: "r", Requirements: []Requirement{
		{IngredientID: 1, Name: "egg"},
	}}
	sat := NewResolver(nil, PolicyDirected).Satisfier(set(1), true)

	a := Score(withOptional, sat, nil)
	b := Score(without, sat, nil)
	assert.Equal(t, b.Score, a.Score)
	assert.Equal(t, 1.0, a.Score)
	assert.Equal(t, []string{"salt", "sugar"}, a.MissingOptional)
}

func TestZeroSatisfiedNeverOutranksSatisfied(t *testing.T) {
	snap := compileSample(t)
	results := snap.Suggest(Request{Ingredients: []string{"flour"}, MaxResults: 10, AllowSubst: true})

	seenZero := false
	for _, r := range results {
		hasRequired := len(r.MissingRequired) > 0 || r.Score > 0
		if r.Score == 0 && hasRequired {
			seenZero = true
			continue
		}
		if seenZero {
			t.Fatalf("recipe %d with score %v ranked after a zero-score recipe", r.RecipeID, r.Score)
		}
	}
}

func TestCompileMergesEquivalentNames(t *testing.T) {
	c := &Corpus{
		Ingredients: []Ingredient{{ID: 1, Name: "egg"}, {ID: 9, Name: "Eggs"}},
		Recipes: []Recipe{
			{ID: 1, Name: "Custard", Requirements: []Requirement{
				{IngredientID: 9, Name: "Eggs", Optional: true},
				{IngredientID: 1, Name: "egg"},
			}},
		},
	}
	snap, err := Compile(c, DefaultNormalizer(), PolicyDirected)
	require.NoError(t, err)

	r, ok := snap.Recipe(1)
	require.True(t, ok)
	require.Len(t, r.Requirements, 1)
	assert.Equal(t, uint(1), r.Requirements[0].IngredientID)
	assert.False(t, r.Requirements[0].Optional)
	assert.Equal(t, 1, snap.IngredientCount())
}

func TestCompileRejectsMalformedCorpus(t *testing.T) {
	_, err := Compile(nil, DefaultNormalizer(), PolicyDirected)
	assert.ErrorIs(t, err, ErrInvalidCorpus)

	_, err = Compile(&Corpus{Recipes: []Recipe{{ID: 1}, {ID: 1}}}, DefaultNormalizer(), PolicyDirected)
	assert.ErrorIs(t, err, ErrInvalidCorpus)

	_, err = Compile(&Corpus{Recipes: []Recipe{{ID: 1, Requirements: []Requirement{{IngredientID: 1, Name: "  "}}}}}, DefaultNormalizer(), PolicyDirected)
	assert.ErrorIs(t, err, ErrInvalidCorpus)
}
