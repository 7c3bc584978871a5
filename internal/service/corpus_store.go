package service

import (
	"context"
	"fmt"

	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/models"
	"gorm.io/gorm"
)

// CorpusStore reads the whole corpus for the matching engine.
type CorpusStore struct {
	db *gorm.DB
}

// NewCorpusStore creates a new CorpusStore instance
func NewCorpusStore(db *gorm.DB) *CorpusStore {
	return &CorpusStore{db: db}
}

type requirementRow struct {
	RecipeID     uint
	IngredientID uint
	Name         string
	Qty          float64
	Unit         string
	Optional     bool
}

// LoadCorpus reads ingredients, recipes, requirement rows and substitution
// pairs inside one transaction so the engine never sees a half-written seed.
func (s *CorpusStore) LoadCorpus(ctx context.Context) (*matching.Corpus, error) {
	corpus := &matching.Corpus{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredients []models.Ingredient
		if err := tx.Order("id").Find(&ingredients).Error; err != nil {
			return fmt.Errorf("failed to read ingredients: %w", err)
		}
		corpus.Ingredients = make([]matching.Ingredient, 0, len(ingredients))
		for _, ing := range ingredients {
			corpus.Ingredients = append(corpus.Ingredients, matching.Ingredient{ID: ing.ID, Name: ing.Name})
		}

		var recipes []models.Recipe
		if err := tx.Order("id").Find(&recipes).Error; err != nil {
			return fmt.Errorf("failed to read recipes: %w", err)
		}

		var rows []requirementRow
		err := tx.Table("recipe_ingredients AS ri").
			Select("ri.recipe_id, ri.ingredient_id, i.name, ri.qty, ri.unit, ri.optional").
			Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
			Order("ri.recipe_id, i.name").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to read recipe ingredients: %w", err)
		}

		byRecipe := make(map[uint][]matching.Requirement, len(recipes))
		for _, row := range rows {
			byRecipe[row.RecipeID] = append(byRecipe[row.RecipeID], matching.Requirement{
				IngredientID: row.IngredientID,
				Name:         row.Name,
				Quantity:     row.Qty,
				Unit:         row.Unit,
				Optional:     row.Optional,
			})
		}

		corpus.Recipes = make([]matching.Recipe, 0, len(recipes))
		for _, r := range recipes {
			corpus.Recipes = append(corpus.Recipes, matching.Recipe{
				ID:           r.ID,
				Name:         r.Name,
				Cuisine:      r.Cuisine,
				Servings:     r.Servings,
				Instructions: r.Instructions,
				Requirements: byRecipe[r.ID],
			})
		}

		var subs []models.IngredientSubstitution
		if err := tx.Order("ingredient_id, substitute_id").Find(&subs).Error; err != nil {
			return fmt.Errorf("failed to read substitutions: %w", err)
		}
		corpus.Substitutions = make([]matching.SubstitutionPair, 0, len(subs))
		for _, sub := range subs {
			corpus.Substitutions = append(corpus.Substitutions, matching.SubstitutionPair{
				IngredientID: sub.IngredientID,
				SubstituteID: sub.SubstituteID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return corpus, nil
}
