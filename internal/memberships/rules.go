package memberships

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// Role predicates over the four stored roles. These gate ledger-scoped
// service calls; the two-tier matrix in internal/permission is what clients render.

// CanInviteMember allows owners and admins.
func CanInviteMember(role enums.MemberRole) bool {
	return role == enums.MemberRoleOwner || role == enums.MemberRoleAdmin
}

// CanManageMembers allows owners and admins.
func CanManageMembers(role enums.MemberRole) bool {
	return role == enums.MemberRoleOwner || role == enums.MemberRoleAdmin
}

// CanEditLedger allows every role except viewer.
func CanEditLedger(role enums.MemberRole) bool {
	switch role {
	case enums.MemberRoleOwner, enums.MemberRoleAdmin, enums.MemberRoleMember:
		return true
	}
	return false
}

// CanDeleteLedger allows owners only.
func CanDeleteLedger(role enums.MemberRole) bool {
	return role == enums.MemberRoleOwner
}

// CanViewLedger is true for any member.
func CanViewLedger(enums.MemberRole) bool {
	return true
}

// CanWriteTransactions allows every role except viewer.
func CanWriteTransactions(role enums.MemberRole) bool {
	return CanEditLedger(role)
}

// CanChangeRole decides whether current may move target to next.
func CanChangeRole(current, target, next enums.MemberRole) bool {
	if target == enums.MemberRoleOwner {
		return false
	}
	if next == enums.MemberRoleOwner && current != enums.MemberRoleOwner {
		return false
	}
	if current == enums.MemberRoleAdmin && target != enums.MemberRoleMember {
		return false
	}
	return CanManageMembers(current)
}

// NewMember builds an active, unsaved membership.
func NewMember(ledgerID, userID string, role enums.MemberRole, now time.Time) *models.LedgerMember {
	now = now.UTC()
	return &models.LedgerMember{
		LedgerID:  ledgerID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  now,
		IsActive:  true,
		UpdatedAt: now,
	}
}
