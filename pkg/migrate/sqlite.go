package migrate

import (
	"context"
	"fmt"

	"github.com/bugie-app/bugie-backend/pkg/db"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCategoryTemplates mirrors the seed rows of the create_categories migration.
func DefaultCategoryTemplates() []models.CategoryTemplate {
	expense, income := enums.EntryTypeExpense, enums.EntryTypeIncome
	return []models.CategoryTemplate{
		{ID: "tpl-expense-food", Name: "식비", Type: expense, Color: "#EF4444", Icon: "restaurant", SortOrder: 1, IsActive: true},
		{ID: "tpl-expense-transport", Name: "교통", Type: expense, Color: "#F97316", Icon: "bus", SortOrder: 2, IsActive: true},
		{ID: "tpl-expense-shopping", Name: "쇼핑", Type: expense, Color: "#EC4899", Icon: "bag-handle", SortOrder: 3, IsActive: true},
		{ID: "tpl-expense-housing", Name: "주거/통신", Type: expense, Color: "#8B5CF6", Icon: "home", SortOrder: 4, IsActive: true},
		{ID: "tpl-expense-health", Name: "의료/건강", Type: expense, Color: "#10B981", Icon: "medkit", SortOrder: 5, IsActive: true},
		{ID: "tpl-expense-leisure", Name: "문화/여가", Type: expense, Color: "#3B82F6", Icon: "film", SortOrder: 6, IsActive: true},
		{ID: "tpl-expense-education", Name: "교육", Type: expense, Color: "#6366F1", Icon: "school", SortOrder: 7, IsActive: true},
		{ID: "tpl-expense-events", Name: "경조사", Type: expense, Color: "#F59E0B", Icon: "gift", SortOrder: 8, IsActive: true},
		{ID: "tpl-expense-other", Name: "기타", Type: expense, Color: "#9CA3AF", Icon: "ellipsis-horizontal", SortOrder: 9, IsActive: true},
		{ID: "tpl-income-salary", Name: "급여", Type: income, Color: "#22C55E", Icon: "cash", SortOrder: 1, IsActive: true},
		{ID: "tpl-income-allowance", Name: "용돈", Type: income, Color: "#14B8A6", Icon: "wallet", SortOrder: 2, IsActive: true},
		{ID: "tpl-income-side", Name: "부수입", Type: income, Color: "#0EA5E9", Icon: "briefcase", SortOrder: 3, IsActive: true},
		{ID: "tpl-income-finance", Name: "금융수입", Type: income, Color: "#A855F7", Icon: "trending-up", SortOrder: 4, IsActive: true},
		{ID: "tpl-income-other", Name: "기타수입", Type: income, Color: "#9CA3AF", Icon: "ellipsis-horizontal", SortOrder: 5, IsActive: true},
	}
}

// AutoMigrate builds the schema from the gorm models and seeds the template
// library. Used for SQLite where the Postgres SQL files do not apply.
func AutoMigrate(ctx context.Context, client *db.Client, logg *logger.Logger) error {
	if err := Schema(client.DB().WithContext(ctx)); err != nil {
		return err
	}
	logg.Info(ctx, "sqlite schema prepared")
	return nil
}

// Schema applies the model schema and template seed to conn.
func Schema(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	templates := DefaultCategoryTemplates()
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&templates).Error; err != nil {
		return fmt.Errorf("seed category templates: %w", err)
	}
	return nil
}
