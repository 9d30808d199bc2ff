package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bugie-app/bugie-backend/internal/memberships"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes the caller's profile and account lifecycle.
type Service interface {
	GetCurrentProfile(ctx context.Context) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileDTO, error)
	EnsureProfile(ctx context.Context, userID, email string) error
	CheckDeleteAccount(ctx context.Context) (*DeleteAccountCheck, error)
	DeleteAccount(ctx context.Context, input DeleteAccountInput) error
}

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	EnsureProfile(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	CountLedgers(ctx context.Context, userID string) (LedgerCounts, error)
	CountOwnedLedgersWithOtherMembers(ctx context.Context, userID string) (int, error)
	DeleteAccount(ctx context.Context, userID string, at time.Time) error
}

// AccountAuth resolves the caller and removes their identity once the
// profile data is gone.
type AccountAuth interface {
	memberships.CurrentUserResolver
	DeleteUser(ctx context.Context, userID string) error
}

// ServiceParams bundles the dependencies required to build a profile service.
type ServiceParams struct {
	Auth     AccountAuth
	Profiles profileRepository
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	auth     AccountAuth
	profiles profileRepository
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a profile service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		auth:     params.Auth,
		profiles: params.Profiles,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) GetCurrentProfile(ctx context.Context) (*ProfileDTO, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	profile, err := s.load(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	counts, err := s.profiles.CountLedgers(ctx, user.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ledgers")
	}
	return ToDTO(profile, counts), nil
}

func (s *service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileDTO, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	updated, err := ApplyUpdate(*existing, input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, updated); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("프로필을 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	counts, err := s.profiles.CountLedgers(ctx, user.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ledgers")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.UserID), "profile.updated")
	return ToDTO(updated, counts), nil
}

// EnsureProfile creates the default profile for a freshly registered identity.
// An existing profile is left untouched.
func (s *service) EnsureProfile(ctx context.Context, userID, email string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.Validation("사용자 정보가 없습니다")
	}
	now := s.now()
	profile := &models.Profile{
		ID:        userID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Currency:  enums.CurrencyKRW,
		Timezone:  DefaultTimezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.EnsureProfile(ctx, profile); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure profile")
	}
	return nil
}

func (s *service) CheckDeleteAccount(ctx context.Context) (*DeleteAccountCheck, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	return s.deletionCheck(ctx, user.UserID)
}

func (s *service) DeleteAccount(ctx context.Context, input DeleteAccountInput) error {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return err
	}
	ctx = s.logg.WithUserID(ctx, user.UserID)
	if input.UserID != user.UserID {
		err := pkgerrors.Unauthorized("본인 계정만 삭제할 수 있습니다")
		s.logg.Warn(ctx, "account.delete_denied: "+err.Message())
		return err
	}
	if err := ValidateConfirmation(input.Confirmation); err != nil {
		return err
	}
	check, err := s.deletionCheck(ctx, user.UserID)
	if err != nil {
		return err
	}

	// a retry after a failed identity deletion finds the data already gone
	err = s.profiles.DeleteAccount(ctx, user.UserID, s.now())
	switch {
	case errors.Is(err, ErrAccountDeleted):
		s.logg.Info(ctx, "account.delete_resumed")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.NotFound("프로필을 찾을 수 없습니다")
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account data")
	}
	if err := s.auth.DeleteUser(ctx, user.UserID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete identity")
	}
	s.logg.Info(s.logg.WithField(ctx, "left_shared_ledgers", check.SharedLedgerCount), "account.deleted")
	return nil
}

func (s *service) deletionCheck(ctx context.Context, userID string) (*DeleteAccountCheck, error) {
	owned, err := s.profiles.CountOwnedLedgersWithOtherMembers(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count owned ledgers")
	}
	counts, err := s.profiles.CountLedgers(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ledgers")
	}
	return CanDeleteAccount(userID, owned, counts.Shared)
}

func (s *service) load(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("프로필을 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}
