package ledgers

import (
	"time"

	"github.com/bugie-app/bugie-backend/internal/memberships"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// LedgerDTO is the transport shape of a ledger.
type LedgerDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Currency    enums.Currency `json:"currency"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// LedgerSummaryDTO is a ledger annotated with only the caller's membership.
type LedgerSummaryDTO struct {
	LedgerDTO
	Membership memberships.MemberDTO `json:"membership"`
}

// LedgerDetailDTO is a ledger with every active member.
type LedgerDetailDTO struct {
	LedgerDTO
	MyRole  enums.MemberRole        `json:"my_role"`
	Members []memberships.MemberDTO `json:"members"`
}

// InviteMemberInput names the invitee by email. Role defaults to member.
type InviteMemberInput struct {
	LedgerID string            `json:"-"`
	Email    string            `json:"email" validate:"required,email"`
	Role     *enums.MemberRole `json:"role,omitempty"`
}

func ToDTO(l *models.Ledger) *LedgerDTO {
	if l == nil {
		return nil
	}
	var description *string
	if l.Description != nil {
		d := *l.Description
		description = &d
	}
	return &LedgerDTO{
		ID:          l.ID,
		Name:        l.Name,
		Description: description,
		Currency:    l.Currency,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func summaryFromRow(row memberships.MembershipWithLedger) LedgerSummaryDTO {
	ledger := models.Ledger{
		ID:          row.LedgerID,
		Name:        row.LedgerName,
		Description: row.LedgerDescription,
		Currency:    row.LedgerCurrency,
		CreatedBy:   row.LedgerCreatedBy,
		CreatedAt:   row.LedgerCreatedAt,
		UpdatedAt:   row.LedgerUpdatedAt,
	}
	return LedgerSummaryDTO{
		LedgerDTO:  *ToDTO(&ledger),
		Membership: *memberships.ToDTO(&row.LedgerMember),
	}
}
