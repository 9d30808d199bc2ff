package ledgers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bugie-app/bugie-backend/internal/categories"
	"github.com/bugie-app/bugie-backend/internal/memberships"
	"github.com/bugie-app/bugie-backend/internal/permission"
	"github.com/bugie-app/bugie-backend/pkg/db"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service orchestrates ledgers, their members and their categories.
type Service interface {
	GetUserLedgers(ctx context.Context) ([]LedgerSummaryDTO, error)
	GetLedger(ctx context.Context, ledgerID string) (*LedgerDetailDTO, error)
	CreateLedger(ctx context.Context, input CreateLedgerInput) (*LedgerDTO, error)
	UpdateLedger(ctx context.Context, ledgerID string, input UpdateLedgerInput) (*LedgerDTO, error)
	DeleteLedger(ctx context.Context, ledgerID string) error
	InviteMember(ctx context.Context, input InviteMemberInput) (*memberships.MemberDTO, error)
	UpdateMemberRole(ctx context.Context, ledgerID, userID string, role enums.MemberRole) (*memberships.MemberDTO, error)
	RemoveMember(ctx context.Context, ledgerID, userID string) error
	LeaveLedger(ctx context.Context, ledgerID string) error
	GetPermissions(ctx context.Context, ledgerID string) (*permission.Snapshot, error)
	GetCategories(ctx context.Context, ledgerID string, entryType *enums.EntryType) ([]categories.CategoryDTO, error)
	AddCustomCategory(ctx context.Context, input categories.CreateCategoryInput) (*categories.CategoryDTO, error)
	UpdateCategory(ctx context.Context, ledgerID, categoryID string, input categories.UpdateCategoryInput) (*categories.CategoryDTO, error)
	DeleteCategory(ctx context.Context, ledgerID, categoryID string) error
}

type ledgerRepository interface {
	CreateWithOwner(ctx context.Context, ledger *models.Ledger, owner *models.LedgerMember, categories []models.Category) error
	FindByID(ctx context.Context, id string) (*models.Ledger, error)
	Update(ctx context.Context, ledger *models.Ledger) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type memberRepository interface {
	Get(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error)
	GetActive(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error)
	ListLedgerMembers(ctx context.Context, ledgerID string) ([]memberships.MemberWithProfile, error)
	ListUserLedgers(ctx context.Context, userID string) ([]memberships.MembershipWithLedger, error)
	Create(ctx context.Context, member *models.LedgerMember) error
	Reactivate(ctx context.Context, id string, role enums.MemberRole, at time.Time) error
	UpdateRole(ctx context.Context, ledgerID, userID string, role enums.MemberRole, at time.Time) error
	Deactivate(ctx context.Context, ledgerID, userID string, at time.Time) error
}

type categoryRepository interface {
	ListTemplates(ctx context.Context) ([]models.CategoryTemplate, error)
	ListByLedger(ctx context.Context, ledgerID string, entryType *enums.EntryType) ([]models.Category, error)
	FindActive(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	DeactivateIfUnused(ctx context.Context, ledgerID, categoryID string, at time.Time) (categories.DeactivateOutcome, error)
}

type profileDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// ServiceParams bundles the dependencies required to build a ledger service.
type ServiceParams struct {
	Auth       memberships.CurrentUserResolver
	Ledgers    ledgerRepository
	Members    memberRepository
	Categories categoryRepository
	Profiles   profileDirectory
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	auth       memberships.CurrentUserResolver
	ledgers    ledgerRepository
	members    memberRepository
	categories categoryRepository
	profiles   profileDirectory
	logg       *logger.Logger
	now        func() time.Time
}

// NewService constructs a ledger service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if params.Ledgers == nil {
		return nil, fmt.Errorf("ledger repository is required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("member repository is required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile directory is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		auth:       params.Auth,
		ledgers:    params.Ledgers,
		members:    params.Members,
		categories: params.Categories,
		profiles:   params.Profiles,
		logg:       params.Logger,
		now:        now,
	}, nil
}

func (s *service) GetUserLedgers(ctx context.Context) ([]LedgerSummaryDTO, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	rows, err := s.members.ListUserLedgers(ctx, user.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user ledgers")
	}
	out := make([]LedgerSummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, summaryFromRow(row))
	}
	return out, nil
}

func (s *service) GetLedger(ctx context.Context, ledgerID string) (*LedgerDetailDTO, error) {
	_, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.loadLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.members.ListLedgerMembers(ctx, ledgerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger members")
	}
	return &LedgerDetailDTO{
		LedgerDTO: *ToDTO(ledger),
		MyRole:    me.Role,
		Members:   memberships.MembersToDTO(rows),
	}, nil
}

func (s *service) CreateLedger(ctx context.Context, input CreateLedgerInput) (*LedgerDTO, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	now := s.now()
	ledger, err := NewLedger(input, user.UserID, now)
	if err != nil {
		return nil, err
	}
	ledger.ID = uuid.NewString()

	templates, err := s.categories.ListTemplates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category templates")
	}
	starter := make([]models.Category, 0, len(templates))
	for _, tpl := range templates {
		starter = append(starter, *categories.FromTemplate(ledger.ID, tpl, now))
	}
	owner := memberships.NewMember(ledger.ID, user.UserID, enums.MemberRoleOwner, now)

	if err := s.ledgers.CreateWithOwner(ctx, ledger, owner, starter); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ledger")
	}
	s.logg.Info(s.logg.WithLedgerID(ctx, ledger.ID), "ledger.created")
	return ToDTO(ledger), nil
}

func (s *service) UpdateLedger(ctx context.Context, ledgerID string, input UpdateLedgerInput) (*LedgerDTO, error) {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanEditLedger(me.Role) {
		return nil, s.deny(ctx, "가계부를 수정할 권한이 없습니다")
	}
	existing, err := s.loadLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	updated, err := ApplyUpdate(*existing, input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.ledgers.Update(ctx, updated); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("가계부를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ledger")
	}
	s.logg.Info(ctx, "ledger.updated")
	return ToDTO(updated), nil
}

func (s *service) DeleteLedger(ctx context.Context, ledgerID string) error {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return err
	}
	if !memberships.CanDeleteLedger(me.Role) {
		return s.deny(ctx, "가계부를 삭제할 권한이 없습니다")
	}
	ledger, err := s.loadLedger(ctx, ledgerID)
	if err != nil {
		return err
	}
	if !CanDelete(*ledger, me.UserID) {
		return s.deny(ctx, "가계부를 만든 사용자만 삭제할 수 있습니다")
	}
	now := s.now()
	if _, err := MarkDeleted(*ledger, now); err != nil {
		return err
	}
	if err := s.ledgers.SoftDelete(ctx, ledgerID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("가계부를 찾을 수 없습니다")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ledger")
	}
	s.logg.Info(ctx, "ledger.deleted")
	return nil
}

func (s *service) InviteMember(ctx context.Context, input InviteMemberInput) (*memberships.MemberDTO, error) {
	ctx, me, err := s.access(ctx, input.LedgerID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanInviteMember(me.Role) {
		return nil, s.deny(ctx, "멤버를 초대할 권한이 없습니다")
	}
	role := enums.MemberRoleMember
	if input.Role != nil {
		role = *input.Role
	}
	if !role.IsValid() {
		return nil, pkgerrors.Validation("올바르지 않은 역할입니다")
	}
	if role == enums.MemberRoleOwner {
		return nil, pkgerrors.Validation("소유자 역할로 초대할 수 없습니다")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.Validation("이메일을 입력해주세요")
	}
	target, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("해당 이메일의 사용자를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup invitee")
	}

	now := s.now()
	existing, err := s.members.Get(ctx, input.LedgerID, target.ID)
	switch {
	case err == nil && existing.IsActive:
		return nil, pkgerrors.BusinessRule("이미 가계부 멤버입니다")
	case err == nil:
		if err := s.members.Reactivate(ctx, existing.ID, role, now); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reactivate member")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		member := memberships.NewMember(input.LedgerID, target.ID, role, now)
		if err := s.members.Create(ctx, member); err != nil {
			if db.IsUniqueViolation(err, "ux_ledger_members_ledger_user") {
				return nil, pkgerrors.BusinessRule("이미 가계부 멤버입니다")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}

	s.logg.Info(s.logg.WithField(ctx, "invitee_id", target.ID), "ledger.member_invited")
	return s.memberDTO(ctx, input.LedgerID, target.ID)
}

func (s *service) UpdateMemberRole(ctx context.Context, ledgerID, userID string, role enums.MemberRole) (*memberships.MemberDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.Validation("올바르지 않은 역할입니다")
	}
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	target, err := s.loadTarget(ctx, ledgerID, userID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanChangeRole(me.Role, target.Role, role) {
		return nil, s.deny(ctx, "역할을 변경할 권한이 없습니다")
	}
	if role == enums.MemberRoleOwner {
		return nil, pkgerrors.BusinessRule("소유권 이전은 지원하지 않습니다")
	}
	if err := s.members.UpdateRole(ctx, ledgerID, userID, role, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("멤버를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member role")
	}
	s.logg.Info(s.logg.WithField(ctx, "target_user_id", userID), "ledger.member_role_changed")
	return s.memberDTO(ctx, ledgerID, userID)
}

func (s *service) RemoveMember(ctx context.Context, ledgerID, userID string) error {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return err
	}
	if !memberships.CanManageMembers(me.Role) {
		return s.deny(ctx, "멤버를 관리할 권한이 없습니다")
	}
	target, err := s.loadTarget(ctx, ledgerID, userID)
	if err != nil {
		return err
	}
	if target.Role == enums.MemberRoleOwner {
		return pkgerrors.BusinessRule("소유자는 내보낼 수 없습니다")
	}
	if err := s.deactivate(ctx, ledgerID, userID); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "target_user_id", userID), "ledger.member_removed")
	return nil
}

func (s *service) LeaveLedger(ctx context.Context, ledgerID string) error {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return err
	}
	if me.Role == enums.MemberRoleOwner {
		return pkgerrors.BusinessRule("소유자는 가계부를 나갈 수 없습니다")
	}
	if err := s.deactivate(ctx, ledgerID, me.UserID); err != nil {
		return err
	}
	s.logg.Info(ctx, "ledger.member_left")
	return nil
}

func (s *service) GetPermissions(ctx context.Context, ledgerID string) (*permission.Snapshot, error) {
	_, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	snapshot := permission.NewSnapshot(me.Role)
	return &snapshot, nil
}

func (s *service) GetCategories(ctx context.Context, ledgerID string, entryType *enums.EntryType) ([]categories.CategoryDTO, error) {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanViewLedger(me.Role) {
		return nil, s.deny(ctx, "")
	}
	if entryType != nil && !entryType.IsValid() {
		return nil, pkgerrors.Validation("카테고리 유형은 income 또는 expense여야 합니다")
	}
	items, err := s.categories.ListByLedger(ctx, ledgerID, entryType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories.ToDTOs(items), nil
}

func (s *service) AddCustomCategory(ctx context.Context, input categories.CreateCategoryInput) (*categories.CategoryDTO, error) {
	ctx, me, err := s.access(ctx, input.LedgerID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanEditLedger(me.Role) {
		return nil, s.deny(ctx, "카테고리를 추가할 권한이 없습니다")
	}
	category, err := categories.NewCustomCategory(input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", category.ID), "category.created")
	return categories.ToDTO(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, ledgerID, categoryID string, input categories.UpdateCategoryInput) (*categories.CategoryDTO, error) {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanEditLedger(me.Role) {
		return nil, s.deny(ctx, "카테고리를 수정할 권한이 없습니다")
	}
	existing, err := s.categories.FindActive(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("카테고리를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if existing.LedgerID != ledgerID {
		return nil, pkgerrors.NotFound("카테고리를 찾을 수 없습니다")
	}
	updated, err := categories.ApplyUpdate(*existing, input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, updated); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("카테고리를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", categoryID), "category.updated")
	return categories.ToDTO(updated), nil
}

func (s *service) DeleteCategory(ctx context.Context, ledgerID, categoryID string) error {
	ctx, me, err := s.access(ctx, ledgerID)
	if err != nil {
		return err
	}
	if !memberships.CanEditLedger(me.Role) {
		return s.deny(ctx, "카테고리를 삭제할 권한이 없습니다")
	}
	outcome, err := s.categories.DeactivateIfUnused(ctx, ledgerID, categoryID, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	switch outcome {
	case categories.CategoryMissing:
		return pkgerrors.NotFound("카테고리를 찾을 수 없습니다")
	case categories.CategoryInUse:
		return pkgerrors.BusinessRule("거래 내역이 있는 카테고리는 삭제할 수 없습니다")
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", categoryID), "category.deleted")
	return nil
}

// access resolves the caller and their active membership, and tags ctx for logging.
func (s *service) access(ctx context.Context, ledgerID string) (context.Context, *models.LedgerMember, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return ctx, nil, err
	}
	if strings.TrimSpace(ledgerID) == "" {
		return ctx, nil, pkgerrors.Validation("가계부 ID가 필요합니다")
	}
	member, err := memberships.RequireMember(ctx, s.members, ledgerID, user.UserID)
	if err != nil {
		return ctx, nil, err
	}
	ctx = s.logg.WithLedgerID(ctx, ledgerID)
	ctx = s.logg.WithActorRole(ctx, string(member.Role))
	return ctx, member, nil
}

func (s *service) deny(ctx context.Context, message string) error {
	err := pkgerrors.Unauthorized(message)
	s.logg.Warn(ctx, "ledger.permission_denied: "+err.Message())
	return err
}

func (s *service) loadLedger(ctx context.Context, ledgerID string) (*models.Ledger, error) {
	ledger, err := s.ledgers.FindByID(ctx, ledgerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("가계부를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ledger")
	}
	return ledger, nil
}

func (s *service) loadTarget(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error) {
	target, err := s.members.GetActive(ctx, ledgerID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("멤버를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	return target, nil
}

func (s *service) deactivate(ctx context.Context, ledgerID, userID string) error {
	if err := s.members.Deactivate(ctx, ledgerID, userID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("멤버를 찾을 수 없습니다")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}
	return nil
}

func (s *service) memberDTO(ctx context.Context, ledgerID, userID string) (*memberships.MemberDTO, error) {
	rows, err := s.members.ListLedgerMembers(ctx, ledgerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger members")
	}
	for _, dto := range memberships.MembersToDTO(rows) {
		if dto.UserID == userID {
			dto := dto
			return &dto, nil
		}
	}
	return nil, pkgerrors.NotFound("멤버를 찾을 수 없습니다")
}
