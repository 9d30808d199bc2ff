package ledgers

import (
	"context"
	"time"

	"github.com/bugie-app/bugie-backend/internal/repo"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists ledgers.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateWithOwner inserts the ledger, its owner membership and its starting
// categories in one transaction.
func (r *Repository) CreateWithOwner(ctx context.Context, ledger *models.Ledger, owner *models.LedgerMember, categories []models.Category) error {
	return r.InTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(ledger).Error; err != nil {
			return err
		}
		owner.LedgerID = ledger.ID
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}
		for i := range categories {
			categories[i].LedgerID = ledger.ID
		}
		return tx.Create(&categories).Error
	})
}

// FindByID loads a live ledger.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Ledger, error) {
	var ledger models.Ledger
	err := r.DB(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&ledger).Error
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Update writes the editable columns of a live ledger.
func (r *Repository) Update(ctx context.Context, ledger *models.Ledger) error {
	res := r.DB(ctx).
		Model(&models.Ledger{}).
		Where("id = ? AND is_deleted = ?", ledger.ID, false).
		Updates(map[string]any{
			"name":        ledger.Name,
			"description": ledger.Description,
			"currency":    ledger.Currency,
			"updated_at":  ledger.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete flags a live ledger as deleted in a single conditional update.
func (r *Repository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res := r.DB(ctx).
		Model(&models.Ledger{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
