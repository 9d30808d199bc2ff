package models

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/enums"
	"gorm.io/gorm"
)

// LedgerMember links a user to a ledger. (ledger_id, user_id) is unique.
type LedgerMember struct {
	ID        string           `gorm:"column:id;type:text;primaryKey"`
	LedgerID  string           `gorm:"column:ledger_id;type:text;not null;uniqueIndex:ux_ledger_members_ledger_user"`
	UserID    string           `gorm:"column:user_id;type:text;not null;uniqueIndex:ux_ledger_members_ledger_user;index"`
	Role      enums.MemberRole `gorm:"column:role;type:text;not null"`
	JoinedAt  time.Time        `gorm:"column:joined_at;not null"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *LedgerMember) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
