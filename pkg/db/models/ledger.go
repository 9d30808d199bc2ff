package models

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/enums"
	"gorm.io/gorm"
)

// Ledger is a shared household budget.
type Ledger struct {
	ID          string         `gorm:"column:id;type:text;primaryKey"`
	Name        string         `gorm:"column:name;type:text;not null"`
	Description *string        `gorm:"column:description"`
	Currency    enums.Currency `gorm:"column:currency;type:text;not null"`
	CreatedBy   string         `gorm:"column:created_by;type:text;not null;index"`
	IsDeleted   bool           `gorm:"column:is_deleted;not null;default:false"`
	DeletedAt   *time.Time     `gorm:"column:deleted_at"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (l *Ledger) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
