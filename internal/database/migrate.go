package database

import (
	"fmt"

	"github.com/pageza/pantrymatch/backend/internal/models"
	"gorm.io/gorm"
)

// Tables lists the corpus tables in dependency order.
var Tables = []interface{}{
	&models.Ingredient{},
	&models.Recipe{},
	&models.RecipeIngredient{},
	&models.IngredientSubstitution{},
}

// RunMigrations creates or updates the corpus schema. Both drivers use gorm
// auto-migration so sqlite and postgres share one definition.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Tables...); err != nil {
		return fmt.Errorf("failed to migrate %s schema: %w", db.Dialector.Name(), err)
	}
	return nil
}
