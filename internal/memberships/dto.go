package memberships

import (
	"time"

	"github.com/bugie-app/bugie-backend/internal/permission"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// MemberDTO is the transport shape for a membership, optionally enriched with profile data.
type MemberDTO struct {
	ID              string           `json:"id"`
	LedgerID        string           `json:"ledger_id"`
	UserID          string           `json:"user_id"`
	Role            enums.MemberRole `json:"role"`
	RoleDisplayName string           `json:"role_display_name"`
	JoinedAt        string           `json:"joined_at"`
	IsActive        bool             `json:"is_active"`
	Email           string           `json:"email,omitempty"`
	FullName        *string          `json:"full_name,omitempty"`
	AvatarURL       *string          `json:"avatar_url,omitempty"`
}

// MemberWithProfile joins a membership with the member's profile.
type MemberWithProfile struct {
	models.LedgerMember
	Email     string  `gorm:"column:email"`
	FullName  *string `gorm:"column:full_name"`
	AvatarURL *string `gorm:"column:avatar_url"`
}

// MembershipWithLedger is one of the caller's memberships with its ledger columns.
type MembershipWithLedger struct {
	models.LedgerMember
	LedgerName        string         `gorm:"column:ledger_name"`
	LedgerDescription *string        `gorm:"column:ledger_description"`
	LedgerCurrency    enums.Currency `gorm:"column:ledger_currency"`
	LedgerCreatedBy   string         `gorm:"column:ledger_created_by"`
	LedgerCreatedAt   time.Time      `gorm:"column:ledger_created_at"`
	LedgerUpdatedAt   time.Time      `gorm:"column:ledger_updated_at"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.LedgerMember) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:              m.ID,
		LedgerID:        m.LedgerID,
		UserID:          m.UserID,
		Role:            m.Role,
		RoleDisplayName: permission.RoleDisplayName(permission.RoleOf(m.Role)),
		JoinedAt:        m.JoinedAt.UTC().Format(time.RFC3339),
		IsActive:        m.IsActive,
	}
}
