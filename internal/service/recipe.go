package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/pantrymatch/backend/internal/models"
	"gorm.io/gorm"
)

// ErrRecipeNotFound is returned for an id with no recipe row.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeIngredient is one ingredient line of a recipe detail.
type RecipeIngredient struct {
	Name     string  `json:"name"`
	Qty      float64 `json:"qty"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional"`
}

// RecipeDetail is the full view of a recipe.
type RecipeDetail struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Cuisine      string             `json:"cuisine"`
	Servings     int                `json:"servings"`
	Instructions string             `json:"instructions"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
}

// RecipeSummary is the list view of a recipe.
type RecipeSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Cuisine  string `json:"cuisine"`
	Servings int    `json:"servings"`
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// GetRecipe retrieves a recipe with its ingredients ordered by name.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*RecipeDetail, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to read recipe %d: %w", id, err)
	}

	ingredients := make([]RecipeIngredient, 0)
	err := db.Table("recipe_ingredients AS ri").
		Select("i.name, ri.qty, ri.unit, ri.optional").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id = ?", id).
		Order("LOWER(i.name), i.id").
		Scan(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredients of recipe %d: %w", id, err)
	}

	return &RecipeDetail{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Cuisine:      recipe.Cuisine,
		Servings:     recipe.Servings,
		Instructions: recipe.Instructions,
		Ingredients:  ingredients,
	}, nil
}

// ListRecipes lists every recipe ordered by name.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]RecipeSummary, error) {
	summaries := make([]RecipeSummary, 0)
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("id, name, cuisine, servings").
		Order("name, id").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return summaries, nil
}
