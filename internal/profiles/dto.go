package profiles

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// ProfileDTO is the caller's profile with ledger counts.
type ProfileDTO struct {
	ID                string         `json:"id"`
	Email             string         `json:"email"`
	FullName          *string        `json:"full_name,omitempty"`
	AvatarURL         *string        `json:"avatar_url,omitempty"`
	Currency          enums.Currency `json:"currency"`
	Timezone          string         `json:"timezone"`
	OwnedLedgerCount  int            `json:"owned_ledger_count"`
	SharedLedgerCount int            `json:"shared_ledger_count"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// DeleteAccountInput names the account to delete and the optional typed confirmation.
type DeleteAccountInput struct {
	UserID       string  `json:"user_id" validate:"required"`
	Confirmation *string `json:"confirmation,omitempty"`
}

func ToDTO(p *models.Profile, counts LedgerCounts) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:                p.ID,
		Email:             p.Email,
		FullName:          p.FullName,
		AvatarURL:         p.AvatarURL,
		Currency:          p.Currency,
		Timezone:          p.Timezone,
		OwnedLedgerCount:  counts.Owned,
		SharedLedgerCount: counts.Shared,
		CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
