package testhelpers

import (
	"testing"

	"github.com/pageza/pantrymatch/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SampleCorpus holds the ids created by SeedSampleCorpus.
type SampleCorpus struct {
	Egg, Flour, Sugar, Butter, Margarine, Salt uint

	Pancakes, Omelette, ButterToast, SaltedWater uint
}

// SeedSampleCorpus writes a small corpus: pancakes need egg and flour, the
// omelette needs egg with optional sugar, butter toast needs butter (margarine
// may stand in) and salted water has a single optional ingredient.
func SeedSampleCorpus(t *testing.T, db *gorm.DB) SampleCorpus {
	t.Helper()

	ingredient := func(name string) uint {
		ing := models.Ingredient{Name: name}
		if err := db.Create(&ing).Error; err != nil {
			t.Fatalf("failed to create ingredient %q: %v", name, err)
		}
		return ing.ID
	}

	var s SampleCorpus
	s.Egg = ingredient("egg")
	s.Flour = ingredient("flour")
	s.Sugar = ingredient("sugar")
	s.Butter = ingredient("butter")
	s.Margarine = ingredient("margarine")
	s.Salt = ingredient("salt")

	recipe := func(name, cuisine string, rows ...models.RecipeIngredient) uint {
		r := models.Recipe{
			Name:         name,
			Cuisine:      cuisine,
			Servings:     2,
			Instructions: "Combine and cook.",
		}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("failed to create recipe %q: %v", name, err)
		}
		for i := range rows {
			rows[i].RecipeID = r.ID
		}
		if err := db.Omit(clause.Associations).Create(&rows).Error; err != nil {
			t.Fatalf("failed to create ingredients of %q: %v", name, err)
		}
		return r.ID
	}

	s.Pancakes = recipe("Pancakes", "American",
		models.RecipeIngredient{IngredientID: s.Egg, Qty: 2},
		models.RecipeIngredient{IngredientID: s.Flour, Qty: 200, Unit: "g"},
	)
	s.Omelette = recipe("Omelette", "French",
		models.RecipeIngredient{IngredientID: s.Egg, Qty: 3},
		models.RecipeIngredient{IngredientID: s.Sugar, Qty: 1, Unit: "tsp", Optional: true},
	)
	s.ButterToast = recipe("Butter Toast", "British",
		models.RecipeIngredient{IngredientID: s.Butter, Qty: 10, Unit: "g"},
	)
	s.SaltedWater = recipe("Salted Water", "",
		models.RecipeIngredient{IngredientID: s.Salt, Qty: 1, Unit: "pinch", Optional: true},
	)

	sub := models.IngredientSubstitution{IngredientID: s.Butter, SubstituteID: s.Margarine, Note: "1:1"}
	if err := db.Omit(clause.Associations).Create(&sub).Error; err != nil {
		t.Fatalf("failed to create substitution: %v", err)
	}
	return s
}
