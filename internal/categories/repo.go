package categories

import (
	"context"
	"time"

	"github.com/bugie-app/bugie-backend/internal/repo"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	"gorm.io/gorm"
)

// DeactivateOutcome reports what DeactivateIfUnused did.
type DeactivateOutcome int

const (
	Deactivated DeactivateOutcome = iota
	CategoryMissing
	CategoryInUse
)

// Repository persists ledger categories and reads the template library.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListTemplates returns the active global templates in display order.
func (r *Repository) ListTemplates(ctx context.Context) ([]models.CategoryTemplate, error) {
	var templates []models.CategoryTemplate
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("type, sort_order, id").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// ListByLedger returns a ledger's active categories, optionally narrowed by type.
func (r *Repository) ListByLedger(ctx context.Context, ledgerID string, entryType *enums.EntryType) ([]models.Category, error) {
	query := r.DB(ctx).Where("ledger_id = ? AND is_active = ?", ledgerID, true)
	if entryType != nil {
		query = query.Where("type = ?", *entryType)
	}
	var out []models.Category
	if err := query.Order("type, sort_order, name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindActive loads an active category by id.
func (r *Repository) FindActive(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.DB(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category.
func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.DB(ctx).Create(category).Error
}

// Update writes the editable columns of an active category.
func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	res := r.DB(ctx).
		Model(&models.Category{}).
		Where("id = ? AND is_active = ?", category.ID, true).
		Updates(map[string]any{
			"name":       category.Name,
			"color":      category.Color,
			"icon":       category.Icon,
			"sort_order": category.SortOrder,
			"updated_at": category.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateIfUnused retires a category in a single statement that only
// matches when no live transaction references it.
func (r *Repository) DeactivateIfUnused(ctx context.Context, ledgerID, categoryID string, at time.Time) (DeactivateOutcome, error) {
	res := r.DB(ctx).Exec(`
		UPDATE categories
		SET is_active = ?, updated_at = ?
		WHERE id = ? AND ledger_id = ? AND is_active = ?
		  AND NOT EXISTS (
			SELECT 1 FROM transactions
			WHERE transactions.category_id = categories.id AND transactions.is_deleted = ?
		  )`,
		false, at, categoryID, ledgerID, true, false,
	)
	if res.Error != nil {
		return CategoryMissing, res.Error
	}
	if res.RowsAffected == 1 {
		return Deactivated, nil
	}

	var count int64
	err := r.DB(ctx).
		Model(&models.Category{}).
		Where("id = ? AND ledger_id = ? AND is_active = ?", categoryID, ledgerID, true).
		Count(&count).Error
	if err != nil {
		return CategoryMissing, err
	}
	if count == 0 {
		return CategoryMissing, nil
	}
	return CategoryInUse, nil
}
