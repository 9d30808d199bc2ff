package models

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/enums"
	"gorm.io/gorm"
)

// Category classifies transactions within one ledger.
type Category struct {
	ID         string          `gorm:"column:id;type:text;primaryKey"`
	LedgerID   string          `gorm:"column:ledger_id;type:text;not null;index"`
	Name       string          `gorm:"column:name;type:text;not null"`
	Type       enums.EntryType `gorm:"column:type;type:text;not null"`
	Color      string          `gorm:"column:color;type:text;not null"`
	Icon       string          `gorm:"column:icon;type:text;not null"`
	SortOrder  int             `gorm:"column:sort_order;not null"`
	IsTemplate bool            `gorm:"column:is_template;not null;default:false"`
	TemplateID *string         `gorm:"column:template_id;type:text"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// CategoryTemplate is the global blueprint copied into every new ledger.
type CategoryTemplate struct {
	ID        string          `gorm:"column:id;type:text;primaryKey"`
	Name      string          `gorm:"column:name;type:text;not null"`
	Type      enums.EntryType `gorm:"column:type;type:text;not null"`
	Color     string          `gorm:"column:color;type:text;not null"`
	Icon      string          `gorm:"column:icon;type:text;not null"`
	SortOrder int             `gorm:"column:sort_order;not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
}

func (t *CategoryTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
