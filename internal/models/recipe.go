package models

import "time"

// Recipe is a row of the recipes table.
type Recipe struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Name         string             `gorm:"size:255;not null;index" json:"name"`
	Cuisine      string             `gorm:"size:100" json:"cuisine"`
	Servings     int                `gorm:"not null;default:1" json:"servings"`
	Instructions string             `gorm:"type:text" json:"instructions"`
	Ingredients  []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient links a recipe to one ingredient. A recipe holds at most
// one row per ingredient.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Qty          float64    `gorm:"not null;default:0" json:"qty"`
	Unit         string     `gorm:"size:32;not null;default:''" json:"unit"`
	Optional     bool       `gorm:"not null;default:false" json:"optional"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT" json:"ingredient"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
