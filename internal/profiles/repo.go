package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bugie-app/bugie-backend/internal/repo"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAccountDeleted reports that the profile row exists but was already
// removed by an earlier DeleteAccount.
var ErrAccountDeleted = errors.New("account data already deleted")

// LedgerCounts splits a user's live ledgers by whether they created them.
type LedgerCounts struct {
	Owned  int `gorm:"column:owned"`
	Shared int `gorm:"column:shared"`
}

// Repository persists profiles and runs the account-level cleanup.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads a live profile.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail loads a live profile by email, ignoring case.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB(ctx).
		Where("LOWER(email) = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(email)), false).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a profile.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	return r.DB(ctx).Create(profile).Error
}

// EnsureProfile inserts profile unless a row with the same id already exists.
func (r *Repository) EnsureProfile(ctx context.Context, profile *models.Profile) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
}

// Update writes the editable columns of a live profile.
func (r *Repository) Update(ctx context.Context, profile *models.Profile) error {
	res := r.DB(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND is_deleted = ?", profile.ID, false).
		Updates(map[string]any{
			"full_name":  profile.FullName,
			"avatar_url": profile.AvatarURL,
			"currency":   profile.Currency,
			"timezone":   profile.Timezone,
			"updated_at": profile.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountLedgers counts the live ledgers the user is an active member of,
// split by ledgers.created_by.
func (r *Repository) CountLedgers(ctx context.Context, userID string) (LedgerCounts, error) {
	var counts LedgerCounts
	err := r.DB(ctx).
		Model(&models.LedgerMember{}).
		Select(`COALESCE(SUM(CASE WHEN ledgers.created_by = ? THEN 1 ELSE 0 END), 0) AS owned,
			COALESCE(SUM(CASE WHEN ledgers.created_by <> ? THEN 1 ELSE 0 END), 0) AS shared`, userID, userID).
		Joins("JOIN ledgers ON ledgers.id = ledger_members.ledger_id").
		Where("ledger_members.user_id = ? AND ledger_members.is_active = ? AND ledgers.is_deleted = ?", userID, true, false).
		Scan(&counts).Error
	return counts, err
}

// CountOwnedLedgersWithOtherMembers counts the live ledgers created by the user
// that still have another active member.
func (r *Repository) CountOwnedLedgersWithOtherMembers(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Ledger{}).
		Where("created_by = ? AND is_deleted = ?", userID, false).
		Where(`EXISTS (SELECT 1 FROM ledger_members
			WHERE ledger_members.ledger_id = ledgers.id
			AND ledger_members.user_id <> ?
			AND ledger_members.is_active = ?)`, userID, true).
		Count(&count).Error
	return int(count), err
}

// DeleteAccount removes the user's memberships, soft-deletes the ledgers they
// created and soft-deletes the profile in one transaction.
func (r *Repository) DeleteAccount(ctx context.Context, userID string, at time.Time) error {
	return r.InTx(ctx, func(tx *gorm.DB) error {
		err := tx.Model(&models.LedgerMember{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Updates(map[string]any{"is_active": false, "updated_at": at}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Ledger{}).
			Where("created_by = ? AND is_deleted = ?", userID, false).
			Updates(map[string]any{"is_deleted": true, "deleted_at": at, "updated_at": at}).Error
		if err != nil {
			return err
		}

		res := tx.Model(&models.Profile{}).
			Where("id = ? AND is_deleted = ?", userID, false).
			Updates(map[string]any{"is_deleted": true, "deleted_at": at, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		var removed int64
		if err := tx.Model(&models.Profile{}).Where("id = ? AND is_deleted = ?", userID, true).Count(&removed).Error; err != nil {
			return err
		}
		if removed > 0 {
			return ErrAccountDeleted
		}
		return gorm.ErrRecordNotFound
	})
}
