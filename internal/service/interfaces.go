package service

import (
	"context"

	"github.com/pageza/pantrymatch/backend/internal/matching"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GetRecipe(ctx context.Context, id uint) (*RecipeDetail, error)
	ListRecipes(ctx context.Context) ([]RecipeSummary, error)
}

// ISuggestionService defines the interface for suggestion operations
type ISuggestionService interface {
	Suggest(ctx context.Context, opts SuggestOptions) ([]matching.MatchResult, error)
	Invalidate(ctx context.Context) error
	Status(ctx context.Context) (CorpusStatus, error)
}

var (
	_ IRecipeService        = (*RecipeService)(nil)
	_ ISuggestionService    = (*SuggestionService)(nil)
	_ Invalidator           = (*SuggestionService)(nil)
	_ matching.CorpusSource = (*CorpusStore)(nil)
	_ SuggestionCache       = (*RedisSuggestionCache)(nil)
)
