package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedOptions controls how a document is written.
type SeedOptions struct {
	// Replace removes every existing recipe, ingredient and substitution
	// before writing the document.
	Replace bool
}

// SeedStats summarizes a seed run.
type SeedStats struct {
	Recipes int
	// Ingredients counts rows created by this run.
	Ingredients   int
	Substitutions int
}

// Seeder writes corpus documents into the store.
type Seeder struct {
	db         *gorm.DB
	normalizer matching.Normalizer
	logger     *zap.Logger
}

// NewSeeder creates a new Seeder instance. Spellings the normalizer treats
// as equal share one ingredient row, which keeps the first spelling written.
func NewSeeder(db *gorm.DB, normalizer matching.Normalizer, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, normalizer: normalizer, logger: logger}
}

// Seed writes doc inside a single transaction. Recipes are matched by name:
// an existing recipe has its metadata and ingredient rows replaced.
func (s *Seeder) Seed(ctx context.Context, doc *CorpusDocument, opts SeedOptions) (SeedStats, error) {
	if err := s.validate(doc); err != nil {
		return SeedStats{}, err
	}

	var stats SeedStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Replace {
			for _, table := range []string{"ingredient_substitutions", "recipe_ingredients", "recipes", "ingredients"} {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
		}

		ids, err := s.existingIngredients(tx)
		if err != nil {
			return err
		}
		created := 0
		ingredientID := func(raw string) (uint, error) {
			key := s.normalizer.Normalize(raw)
			if id, ok := ids[key]; ok {
				return id, nil
			}
			ing := models.Ingredient{Name: displayName(raw)}
			if err := tx.Create(&ing).Error; err != nil {
				return 0, fmt.Errorf("failed to store ingredient %q: %w", ing.Name, err)
			}
			ids[key] = ing.ID
			created++
			return ing.ID, nil
		}

		for _, dr := range doc.Recipes {
			recipeID, err := s.upsertRecipe(tx, dr)
			if err != nil {
				return err
			}

			rows := make([]models.RecipeIngredient, 0, len(dr.Ingredients))
			for _, di := range dr.Ingredients {
				id, err := ingredientID(di.Name)
				if err != nil {
					return err
				}
				rows = append(rows, models.RecipeIngredient{
					RecipeID:     recipeID,
					IngredientID: id,
					Qty:          di.Qty,
					Unit:         strings.TrimSpace(di.Unit),
					Optional:     di.Optional,
				})
			}
			if len(rows) > 0 {
				if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
					return fmt.Errorf("failed to store ingredients of %q: %w", dr.Name, err)
				}
			}
			stats.Recipes++
		}

		for _, ds := range doc.Substitutions {
			from, err := ingredientID(ds.Ingredient)
			if err != nil {
				return err
			}
			to, err := ingredientID(ds.Substitute)
			if err != nil {
				return err
			}
			sub := models.IngredientSubstitution{IngredientID: from, SubstituteID: to, Note: ds.Note}
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&sub).Error
			if err != nil {
				return fmt.Errorf("failed to store substitution %q -> %q: %w", ds.Ingredient, ds.Substitute, err)
			}
			stats.Substitutions++
		}

		stats.Ingredients = created
		return nil
	})
	if err != nil {
		return SeedStats{}, err
	}

	s.logger.Info("corpus seeded",
		zap.Int("recipes", stats.Recipes),
		zap.Int("ingredients", stats.Ingredients),
		zap.Int("substitutions", stats.Substitutions),
		zap.Bool("replace", opts.Replace),
	)
	return stats, nil
}

// existingIngredients maps the normalized key of every stored ingredient to
// its id. When two stored rows share a key the lowest id wins, matching the
// engine's merge.
func (s *Seeder) existingIngredients(tx *gorm.DB) (map[string]uint, error) {
	var rows []models.Ingredient
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read ingredients: %w", err)
	}
	ids := make(map[string]uint, len(rows))
	for _, row := range rows {
		key := s.normalizer.Normalize(row.Name)
		if _, ok := ids[key]; !ok {
			ids[key] = row.ID
		}
	}
	return ids, nil
}

// displayName trims and collapses whitespace but keeps the author's spelling.
func displayName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func (s *Seeder) upsertRecipe(tx *gorm.DB, dr DocumentRecipe) (uint, error) {
	name := strings.TrimSpace(dr.Name)
	servings := dr.Servings
	if servings <= 0 {
		servings = 1
	}

	var recipe models.Recipe
	err := tx.Where("name = ?", name).First(&recipe).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		recipe = models.Recipe{
			Name:         name,
			Cuisine:      strings.TrimSpace(dr.Cuisine),
			Servings:     servings,
			Instructions: dr.Instructions,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return 0, fmt.Errorf("failed to store recipe %q: %w", name, err)
		}
		return recipe.ID, nil
	case err != nil:
		return 0, fmt.Errorf("failed to look up recipe %q: %w", name, err)
	}

	err = tx.Model(&recipe).Updates(map[string]interface{}{
		"cuisine":      strings.TrimSpace(dr.Cuisine),
		"servings":     servings,
		"instructions": dr.Instructions,
	}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to update recipe %q: %w", name, err)
	}
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear ingredients of %q: %w", name, err)
	}
	return recipe.ID, nil
}

// validate rejects documents the store would refuse or the engine would
// misread, before anything is written.
func (s *Seeder) validate(doc *CorpusDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	recipes := make(map[string]bool, len(doc.Recipes))
	for i, dr := range doc.Recipes {
		name := strings.TrimSpace(dr.Name)
		if name == "" {
			return fmt.Errorf("%w: recipe %d has no name", ErrInvalidDocument, i)
		}
		if recipes[name] {
			return fmt.Errorf("%w: recipe %q appears twice", ErrInvalidDocument, name)
		}
		recipes[name] = true

		seen := make(map[string]bool, len(dr.Ingredients))
		for _, di := range dr.Ingredients {
			n := s.normalizer.Normalize(di.Name)
			if n == "" {
				return fmt.Errorf("%w: recipe %q has an ingredient without a name", ErrInvalidDocument, name)
			}
			if seen[n] {
				return fmt.Errorf("%w: recipe %q lists %q more than once", ErrInvalidDocument, name, n)
			}
			seen[n] = true
		}
	}

	for _, ds := range doc.Substitutions {
		from, to := s.normalizer.Normalize(ds.Ingredient), s.normalizer.Normalize(ds.Substitute)
		if from == "" || to == "" {
			return fmt.Errorf("%w: substitution needs both ingredient and substitute", ErrInvalidDocument)
		}
		if from == to {
			return fmt.Errorf("%w: %q cannot substitute for itself", ErrInvalidDocument, from)
		}
	}
	return nil
}
