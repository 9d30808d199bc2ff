package memberships

import (
	"context"
	"fmt"
	"time"

	"github.com/bugie-app/bugie-backend/internal/repo"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes membership persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Get returns the membership for (ledger, user) whether or not it is active.
func (r *Repository) Get(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error) {
	var member models.LedgerMember
	err := r.DB(ctx).
		Where("ledger_id = ? AND user_id = ?", ledgerID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetActive returns the active membership for (ledger, user) on a live ledger.
func (r *Repository) GetActive(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error) {
	var member models.LedgerMember
	err := r.DB(ctx).
		Select("ledger_members.*").
		Joins("JOIN ledgers ON ledgers.id = ledger_members.ledger_id AND ledgers.is_deleted = ?", false).
		Where("ledger_members.ledger_id = ? AND ledger_members.user_id = ? AND ledger_members.is_active = ?", ledgerID, userID, true).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListLedgerMembers returns the active members of a ledger with their profiles.
func (r *Repository) ListLedgerMembers(ctx context.Context, ledgerID string) ([]MemberWithProfile, error) {
	var rows []MemberWithProfile
	err := r.DB(ctx).
		Model(&models.LedgerMember{}).
		Select("ledger_members.*, profiles.email, profiles.full_name, profiles.avatar_url").
		Joins("LEFT JOIN profiles ON profiles.id = ledger_members.user_id").
		Where("ledger_members.ledger_id = ? AND ledger_members.is_active = ?", ledgerID, true).
		Order("ledger_members.joined_at, ledger_members.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListUserLedgers returns the caller's active memberships on live ledgers.
func (r *Repository) ListUserLedgers(ctx context.Context, userID string) ([]MembershipWithLedger, error) {
	var rows []MembershipWithLedger
	err := r.DB(ctx).
		Model(&models.LedgerMember{}).
		Select(`ledger_members.*,
			ledgers.name AS ledger_name,
			ledgers.description AS ledger_description,
			ledgers.currency AS ledger_currency,
			ledgers.created_by AS ledger_created_by,
			ledgers.created_at AS ledger_created_at,
			ledgers.updated_at AS ledger_updated_at`).
		Joins("JOIN ledgers ON ledgers.id = ledger_members.ledger_id").
		Where("ledger_members.user_id = ? AND ledger_members.is_active = ? AND ledgers.is_deleted = ?", userID, true, false).
		Order("ledgers.created_at, ledgers.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a new membership record.
func (r *Repository) Create(ctx context.Context, member *models.LedgerMember) error {
	if !member.Role.IsValid() {
		return fmt.Errorf("invalid member role %q", member.Role)
	}
	return r.DB(ctx).Create(member).Error
}

// Reactivate turns a previously removed membership back on with a new role.
func (r *Repository) Reactivate(ctx context.Context, id string, role enums.MemberRole, at time.Time) error {
	return r.updateOne(ctx, "id = ?", []any{id}, map[string]any{
		"role":       role,
		"is_active":  true,
		"joined_at":  at,
		"updated_at": at,
	})
}

// UpdateRole changes the role of an active membership.
func (r *Repository) UpdateRole(ctx context.Context, ledgerID, userID string, role enums.MemberRole, at time.Time) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid member role %q", role)
	}
	return r.updateOne(ctx, "ledger_id = ? AND user_id = ? AND is_active = ?", []any{ledgerID, userID, true}, map[string]any{
		"role":       role,
		"updated_at": at,
	})
}

// Deactivate removes a member from a ledger while keeping the row.
func (r *Repository) Deactivate(ctx context.Context, ledgerID, userID string, at time.Time) error {
	return r.updateOne(ctx, "ledger_id = ? AND user_id = ? AND is_active = ?", []any{ledgerID, userID, true}, map[string]any{
		"is_active":  false,
		"updated_at": at,
	})
}

func (r *Repository) updateOne(ctx context.Context, where string, args []any, values map[string]any) error {
	res := r.DB(ctx).
		Model(&models.LedgerMember{}).
		Where(where, args...).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
