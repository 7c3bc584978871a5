package matching

import "errors"

var (
	// ErrEmptyCorpus is returned when a corpus source yields no recipes.
	ErrEmptyCorpus = errors.New("corpus contains no recipes")
	// ErrInvalidCorpus wraps structural problems found while compiling a corpus.
	ErrInvalidCorpus = errors.New("invalid corpus")
)

// Ingredient is a canonical ingredient identity.
type Ingredient struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Requirement is one ingredient row of a recipe.
type Requirement struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"qty"`
	Unit         string  `json:"unit"`
	Optional     bool    `json:"optional"`
}

// Recipe is a read-only corpus entry.
type Recipe struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Cuisine      string        `json:"cuisine"`
	Servings     int           `json:"servings"`
	Instructions string        `json:"instructions"`
	Requirements []Requirement `json:"ingredients"`
}

// SubstitutionPair declares that SubstituteID may stand in for IngredientID.
type SubstitutionPair struct {
	IngredientID uint `json:"ingredient_id"`
	SubstituteID uint `json:"substitute_id"`
}

// Corpus is a point-in-time read of everything the engine matches against.
type Corpus struct {
	Ingredients   []Ingredient
	Recipes       []Recipe
	Substitutions []SubstitutionPair
}

// Substitution records which held ingredient satisfied a requirement the user
// does not hold directly.
type Substitution struct {
	Required    string `json:"required"`
	UsedInstead string `json:"used"`
}

// MatchResult is the per-recipe outcome of a suggestion call.
type MatchResult struct {
	RecipeID        uint           `json:"id"`
	Name            string         `json:"name"`
	Cuisine         string         `json:"cuisine"`
	Score           float64        `json:"score"`
	Present         []string       `json:"present"`
	MissingRequired []string       `json:"missing_required"`
	MissingOptional []string       `json:"missing_optional"`
	Substitutions   []Substitution `json:"substitutions,omitempty"`
}

// Request is a suggestion call after boundary coercion.
type Request struct {
	Ingredients []string
	MaxResults  int
	AllowSubst  bool
}
