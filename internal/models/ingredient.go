package models

import "time"

// Ingredient is an ingredient identity. Name is the spelling shown to users;
// matching compares its normalized form.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// IngredientSubstitution declares that Substitute may stand in for Ingredient.
// Whether the pair also applies in reverse is decided by the substitution
// policy at match time, not by the data.
type IngredientSubstitution struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_substitution_pair" json:"ingredient_id"`
	SubstituteID uint       `gorm:"not null;uniqueIndex:idx_substitution_pair;index" json:"substitute_id"`
	Note         string     `gorm:"size:255" json:"note,omitempty"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Substitute   Ingredient `gorm:"foreignKey:SubstituteID;constraint:OnDelete:CASCADE" json:"-"`
}

func (IngredientSubstitution) TableName() string {
	return "ingredient_substitutions"
}
