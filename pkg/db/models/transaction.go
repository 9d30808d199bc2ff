package models

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/enums"
	"gorm.io/gorm"
)

// Transaction is one dated income or expense entry.
type Transaction struct {
	ID              string          `gorm:"column:id;type:text;primaryKey"`
	LedgerID        string          `gorm:"column:ledger_id;type:text;not null;index:ix_transactions_ledger_date,priority:1;index:ix_transactions_ledger_day,priority:1"`
	CategoryID      string          `gorm:"column:category_id;type:text;not null;index"`
	CreatedBy       string          `gorm:"column:created_by;type:text;not null"`
	Amount          int64           `gorm:"column:amount;not null"`
	Type            enums.EntryType `gorm:"column:type;type:text;not null"`
	Title           string          `gorm:"column:title;type:text;not null"`
	Description     *string         `gorm:"column:description"`
	TransactionDate time.Time       `gorm:"column:transaction_date;not null;index:ix_transactions_ledger_date,priority:2"`
	TransactionDay  string          `gorm:"column:transaction_day;type:text;not null;index:ix_transactions_ledger_day,priority:2"`
	IsDeleted       bool            `gorm:"column:is_deleted;not null;default:false"`
	DeletedAt       *time.Time      `gorm:"column:deleted_at"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

// TransactionDateLayout is the civil-date form stored in TransactionDay.
const TransactionDateLayout = "2006-01-02"

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	if t.TransactionDay == "" {
		t.TransactionDay = t.TransactionDate.UTC().Format(TransactionDateLayout)
	}
	return nil
}
