package transactions

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
	"github.com/bugie-app/bugie-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes ledger entries and their summaries.
type Service interface {
	GetTransactions(ctx context.Context, params ListParams) (*Page, error)
	GetTransaction(ctx context.Context, id string) (*TransactionDTO, error)
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionDTO, error)
	UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*TransactionDTO, error)
	DeleteTransaction(ctx context.Context, id string) error
	GetMonthlySummary(ctx context.Context, ledgerID string, year, month int) (*MonthlySummary, error)
	GetCalendarSummary(ctx context.Context, ledgerID string, year, month int) ([]DailySummary, error)
	GetCategoryMonthlySummary(ctx context.Context, ledgerID string, year, month int, entryType enums.EntryType) ([]CategorySummary, error)
}

type transactionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, txn *models.Transaction) error
	Update(ctx context.Context, txn *models.Transaction) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter ListFilter) ([]models.Transaction, error)
	ListInRange(ctx context.Context, ledgerID string, from, to time.Time) ([]models.Transaction, error)
	CategoryTotals(ctx context.Context, ledgerID string, from, to time.Time, entryType enums.EntryType) ([]CategoryTotal, error)
}

type categoryFinder interface {
	FindActive(ctx context.Context, id string) (*models.Category, error)
}

// ServiceParams bundles the dependencies required to build a transaction service.
type ServiceParams struct {
	Auth         memberships.CurrentUserResolver
	Transactions transactionRepository
	Members      memberships.ActiveMemberFinder
	Categories   categoryFinder
	Logger       *logger.Logger
	Now          func() time.Time
	// Location dates entries sent without a transaction date. Defaults to UTC.
	Location *time.Location
}

type service struct {
	auth         memberships.CurrentUserResolver
	transactions transactionRepository
	members      memberships.ActiveMemberFinder
	categories   categoryFinder
	logg         *logger.Logger
	now          func() time.Time
	loc          *time.Location
}

// NewService constructs a transaction service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if params.Transactions == nil {
		return nil, fmt.Errorf("transaction repository is required")
	}
	if params.Members == nil {
		return nil, fmt.Errorf("member repository is required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		auth:         params.Auth,
		transactions: params.Transactions,
		members:      params.Members,
		categories:   params.Categories,
		logg:         params.Logger,
		now:          now,
		loc:          loc,
	}, nil
}

func (s *service) GetTransactions(ctx context.Context, params ListParams) (*Page, error) {
	if _, _, err := s.access(ctx, params.LedgerID); err != nil {
		return nil, err
	}
	if params.Type != nil && !params.Type.IsValid() {
		return nil, pkgerrors.Validation("거래 유형은 income 또는 expense여야 합니다")
	}
	if params.From != nil && params.To != nil && !params.From.Before(*params.To) {
		return nil, pkgerrors.Validation("조회 시작일은 종료일보다 앞서야 합니다")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Validation("올바르지 않은 커서입니다")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.transactions.List(ctx, ListFilter{
		LedgerID:   params.LedgerID,
		CategoryID: params.CategoryID,
		Type:       params.Type,
		From:       params.From,
		To:         params.To,
		Keyword:    params.Keyword,
		Cursor:     cursor,
		Limit:      pagination.LimitWithBuffer(params.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	page := &Page{Items: make([]TransactionDTO, 0, limit)}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{Date: last.TransactionDate, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		page.Items = append(page.Items, *ToDTO(&rows[i]))
	}
	return page, nil
}

func (s *service) GetTransaction(ctx context.Context, id string) (*TransactionDTO, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	txn, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := memberships.RequireMember(ctx, s.members, txn.LedgerID, user.UserID); err != nil {
		return nil, err
	}
	return ToDTO(txn), nil
}

func (s *service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*TransactionDTO, error) {
	ctx, me, err := s.access(ctx, input.LedgerID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanWriteTransactions(me.Role) {
		return nil, s.deny(ctx, "거래를 추가할 권한이 없습니다")
	}
	now := s.now().In(s.loc)
	txn, err := New(input, me.UserID, now)
	if err != nil {
		return nil, err
	}
	category, err := s.loadCategory(ctx, input.LedgerID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := ValidateCategoryType(txn.Type, *category); err != nil {
		return nil, err
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
	}
	s.logg.Info(s.logg.WithField(ctx, "transaction_id", txn.ID), "transaction.created")
	return ToDTO(txn), nil
}

func (s *service) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*TransactionDTO, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx, me, err := s.memberOf(ctx, existing.LedgerID, user.UserID)
	if err != nil {
		return nil, err
	}
	if !memberships.CanWriteTransactions(me.Role) {
		return nil, s.deny(ctx, "거래를 수정할 권한이 없습니다")
	}
	updated, err := ApplyUpdate(*existing, input, s.now())
	if err != nil {
		return nil, err
	}
	if input.CategoryID != nil || input.Type != nil {
		category, err := s.loadCategory(ctx, updated.LedgerID, updated.CategoryID)
		if err != nil {
			return nil, err
		}
		if err := ValidateCategoryType(updated.Type, *category); err != nil {
			return nil, err
		}
	}
	if err := s.transactions.Update(ctx, updated); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("거래를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transaction")
	}
	s.logg.Info(s.logg.WithField(ctx, "transaction_id", id), "transaction.updated")
	return ToDTO(updated), nil
}

func (s *service) DeleteTransaction(ctx context.Context, id string) error {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return err
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	ctx, me, err := s.memberOf(ctx, existing.LedgerID, user.UserID)
	if err != nil {
		return err
	}
	if !memberships.CanWriteTransactions(me.Role) {
		return s.deny(ctx, "거래를 삭제할 권한이 없습니다")
	}
	now := s.now()
	if _, err := MarkDeleted(*existing, now); err != nil {
		return err
	}
	if err := s.transactions.SoftDelete(ctx, id, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("거래를 찾을 수 없습니다")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete transaction")
	}
	s.logg.Info(s.logg.WithField(ctx, "transaction_id", id), "transaction.deleted")
	return nil
}

func (s *service) GetMonthlySummary(ctx context.Context, ledgerID string, year, month int) (*MonthlySummary, error) {
	daily, err := s.GetCalendarSummary(ctx, ledgerID, year, month)
	if err != nil {
		return nil, err
	}
	summary := CalculateMonthlySummary(year, month, daily)
	return &summary, nil
}

func (s *service) GetCalendarSummary(ctx context.Context, ledgerID string, year, month int) ([]DailySummary, error) {
	if _, _, err := s.access(ctx, ledgerID); err != nil {
		return nil, err
	}
	from, to, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	rows, err := s.transactions.ListInRange(ctx, ledgerID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load month transactions")
	}
	return CalculateDailySummary(rows), nil
}

func (s *service) GetCategoryMonthlySummary(ctx context.Context, ledgerID string, year, month int, entryType enums.EntryType) ([]CategorySummary, error) {
	if _, _, err := s.access(ctx, ledgerID); err != nil {
		return nil, err
	}
	if !entryType.IsValid() {
		return nil, pkgerrors.Validation("거래 유형은 income 또는 expense여야 합니다")
	}
	from, to, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	totals, err := s.transactions.CategoryTotals(ctx, ledgerID, from, to, entryType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "category totals")
	}
	return CalculateCategorySummary(totals), nil
}

func (s *service) access(ctx context.Context, ledgerID string) (context.Context, *models.LedgerMember, error) {
	user, err := memberships.RequireUser(ctx, s.auth)
	if err != nil {
		return ctx, nil, err
	}
	if strings.TrimSpace(ledgerID) == "" {
		return ctx, nil, pkgerrors.Validation("가계부 ID가 필요합니다")
	}
	return s.memberOf(ctx, ledgerID, user.UserID)
}

func (s *service) memberOf(ctx context.Context, ledgerID, userID string) (context.Context, *models.LedgerMember, error) {
	member, err := memberships.RequireMember(ctx, s.members, ledgerID, userID)
	if err != nil {
		return ctx, nil, err
	}
	ctx = s.logg.WithLedgerID(ctx, ledgerID)
	ctx = s.logg.WithActorRole(ctx, string(member.Role))
	return ctx, member, nil
}

func (s *service) deny(ctx context.Context, message string) error {
	err := pkgerrors.Unauthorized(message)
	s.logg.Warn(ctx, "transaction.permission_denied: "+err.Message())
	return err
}

func (s *service) load(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("거래를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return txn, nil
}

func (s *service) loadCategory(ctx context.Context, ledgerID, categoryID string) (*models.Category, error) {
	category, err := s.categories.FindActive(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("카테고리를 찾을 수 없습니다")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if category.LedgerID != ledgerID {
		return nil, pkgerrors.NotFound("카테고리를 찾을 수 없습니다")
	}
	return category, nil
}
