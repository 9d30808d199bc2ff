package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/bugie-app/bugie-backend/pkg/auth"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubAuth struct{ user *auth.Identity }

func (s stubAuth) CurrentUser(context.Context) (*auth.Identity, error) { return s.user, nil }

type stubMembers map[string]enums.MemberRole

func (s stubMembers) GetActive(_ context.Context, ledgerID, userID string) (*models.LedgerMember, error) {
	role, ok := s[ledgerID+"|"+userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.LedgerMember{LedgerID: ledgerID, UserID: userID, Role: role, IsActive: true}, nil
}

type stubCategories map[string]*models.Category

func (s stubCategories) FindActive(_ context.Context, id string) (*models.Category, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTransactions struct {
	items   map[string]*models.Transaction
	list    []models.Transaction
	filter  ListFilter
	totals  []CategoryTotal
	created *models.Transaction
}

func (s *stubTransactions) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	if t, ok := s.items[id]; ok && !t.IsDeleted {
		dup := *t
		return &dup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTransactions) Create(_ context.Context, txn *models.Transaction) error {
	txn.ID = "t-new"
	s.created = txn
	s.items[txn.ID] = txn
	return nil
}

func (s *stubTransactions) Update(_ context.Context, txn *models.Transaction) error {
	s.items[txn.ID] = txn
	return nil
}

func (s *stubTransactions) SoftDelete(_ context.Context, id string, at time.Time) error {
	t, ok := s.items[id]
	if !ok || t.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	t.IsDeleted = true
	t.DeletedAt = &at
	return nil
}

func (s *stubTransactions) List(_ context.Context, filter ListFilter) ([]models.Transaction, error) {
	s.filter = filter
	return s.list, nil
}

func (s *stubTransactions) ListInRange(_ context.Context, ledgerID string, from, to time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range s.list {
		day := t.TransactionDay
		if day == "" {
			day = t.TransactionDate.UTC().Format(DateLayout)
		}
		if t.LedgerID == ledgerID && day >= from.Format(DateLayout) && day < to.Format(DateLayout) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTransactions) CategoryTotals(context.Context, string, time.Time, time.Time, enums.EntryType) ([]CategoryTotal, error) {
	return s.totals, nil
}

type fixture struct {
	svc  Service
	txns *stubTransactions
}

func newFixture(t *testing.T, userID string, members stubMembers) *fixture {
	t.Helper()
	txns := &stubTransactions{items: map[string]*models.Transaction{}}
	var user *auth.Identity
	if userID != "" {
		user = &auth.Identity{UserID: userID}
	}
	svc, err := NewService(ServiceParams{
		Auth:         stubAuth{user: user},
		Transactions: txns,
		Members:      members,
		Categories: stubCategories{
			"food":   {ID: "food", LedgerID: "l1", Type: enums.EntryTypeExpense, IsActive: true},
			"salary": {ID: "salary", LedgerID: "l1", Type: enums.EntryTypeIncome, IsActive: true},
			"alien":  {ID: "alien", LedgerID: "l2", Type: enums.EntryTypeExpense, IsActive: true},
		},
		Now: func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &fixture{svc: svc, txns: txns}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if !pkgerrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func validInput() CreateTransactionInput {
	return CreateTransactionInput{LedgerID: "l1", CategoryID: "food", Amount: 12000, Type: enums.EntryTypeExpense, Title: "점심"}
}

func TestViewerCannotCreateTransaction(t *testing.T) {
	f := newFixture(t, "v", stubMembers{"l1|v": enums.MemberRoleViewer})
	_, err := f.svc.CreateTransaction(context.Background(), validInput())
	expectCode(t, err, pkgerrors.CodeUnauthorized)
	if f.txns.created != nil {
		t.Fatalf("viewer must not persist anything")
	}
}

func TestCreateTransaction(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleMember})
	dto, err := f.svc.CreateTransaction(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.ID != "t-new" || dto.Amount != 12000 || dto.CreatedBy != "m" {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if dto.TransactionDate != "2025-06-15T10:00:00Z" {
		t.Fatalf("expected default date now, got %s", dto.TransactionDate)
	}
}

func TestCreateTransactionDefaultsToLocalCalendarDay(t *testing.T) {
	txns := &stubTransactions{items: map[string]*models.Transaction{}}
	svc, err := NewService(ServiceParams{
		Auth:         stubAuth{user: &auth.Identity{UserID: "m"}},
		Transactions: txns,
		Members:      stubMembers{"l1|m": enums.MemberRoleMember},
		Categories:   stubCategories{"food": {ID: "food", LedgerID: "l1", Type: enums.EntryTypeExpense, IsActive: true}},
		Now:          func() time.Time { return time.Date(2025, 6, 15, 16, 0, 0, 0, time.UTC) },
		Location:     time.FixedZone("KST", 9*60*60),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	dto, err := svc.CreateTransaction(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.TransactionDay != "2025-06-16" || dto.TransactionDate != "2025-06-15T16:00:00Z" {
		t.Fatalf("expected the Seoul calendar day, got %s at %s", dto.TransactionDay, dto.TransactionDate)
	}
}

func TestCreateTransactionChecksCategory(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleAdmin})

	in := validInput()
	in.CategoryID = "salary"
	_, err := f.svc.CreateTransaction(context.Background(), in)
	expectCode(t, err, pkgerrors.CodeBusinessRule)

	in.CategoryID = "alien"
	_, err = f.svc.CreateTransaction(context.Background(), in)
	expectCode(t, err, pkgerrors.CodeNotFound)

	in.CategoryID = "missing"
	_, err = f.svc.CreateTransaction(context.Background(), in)
	expectCode(t, err, pkgerrors.CodeNotFound)

	in = validInput()
	in.Amount = 0
	_, err = f.svc.CreateTransaction(context.Background(), in)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateTransactionRequiresSessionAndMembership(t *testing.T) {
	anon := newFixture(t, "", stubMembers{})
	_, err := anon.svc.CreateTransaction(context.Background(), validInput())
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	stranger := newFixture(t, "x", stubMembers{})
	_, err = stranger.svc.CreateTransaction(context.Background(), validInput())
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestGetTransactionChecksOwningLedger(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleViewer})
	f.txns.items["t1"] = &models.Transaction{ID: "t1", LedgerID: "l1", TransactionDate: fixedNow}
	f.txns.items["t2"] = &models.Transaction{ID: "t2", LedgerID: "l2", TransactionDate: fixedNow}

	if _, err := f.svc.GetTransaction(context.Background(), "t1"); err != nil {
		t.Fatalf("viewer read: %v", err)
	}
	_, err := f.svc.GetTransaction(context.Background(), "t2")
	expectCode(t, err, pkgerrors.CodeUnauthorized)
	_, err = f.svc.GetTransaction(context.Background(), "nope")
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateTransactionRevalidatesCategoryType(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleMember})
	f.txns.items["t1"] = &models.Transaction{ID: "t1", LedgerID: "l1", CategoryID: "food", Type: enums.EntryTypeExpense, Amount: 10, Title: "x", TransactionDate: fixedNow}

	income := enums.EntryTypeIncome
	_, err := f.svc.UpdateTransaction(context.Background(), "t1", UpdateTransactionInput{Type: &income})
	expectCode(t, err, pkgerrors.CodeBusinessRule)

	salary := "salary"
	dto, err := f.svc.UpdateTransaction(context.Background(), "t1", UpdateTransactionInput{Type: &income, CategoryID: &salary})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Type != enums.EntryTypeIncome || dto.CategoryID != "salary" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestDeleteTransaction(t *testing.T) {
	viewer := newFixture(t, "v", stubMembers{"l1|v": enums.MemberRoleViewer})
	viewer.txns.items["t1"] = &models.Transaction{ID: "t1", LedgerID: "l1"}
	expectCode(t, viewer.svc.DeleteTransaction(context.Background(), "t1"), pkgerrors.CodeUnauthorized)

	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleMember})
	f.txns.items["t1"] = &models.Transaction{ID: "t1", LedgerID: "l1"}
	if err := f.svc.DeleteTransaction(context.Background(), "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expectCode(t, f.svc.DeleteTransaction(context.Background(), "t1"), pkgerrors.CodeNotFound)
}

func TestGetTransactionsPaginates(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleViewer})
	for i := 0; i < 3; i++ {
		f.txns.list = append(f.txns.list, models.Transaction{ID: string(rune('c' - i)), LedgerID: "l1", TransactionDate: fixedNow.Add(-time.Duration(i) * time.Hour)})
	}

	page, err := f.svc.GetTransactions(context.Background(), ListParams{LedgerID: "l1", Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if f.txns.filter.Limit != 3 {
		t.Fatalf("expected limit+1 to be requested, got %d", f.txns.filter.Limit)
	}
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected a full page with a cursor, got %+v", page)
	}
	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil || cursor.ID != "b" {
		t.Fatalf("expected cursor at second row, got %+v %v", cursor, err)
	}

	_, err = f.svc.GetTransactions(context.Background(), ListParams{LedgerID: "l1", Cursor: "%%%"})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestMonthlyAndCalendarSummary(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleViewer})
	f.txns.list = []models.Transaction{
		{LedgerID: "l1", Type: enums.EntryTypeIncome, Amount: 1000, TransactionDate: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
		{LedgerID: "l1", Type: enums.EntryTypeExpense, Amount: 400, TransactionDate: time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)},
		{LedgerID: "l1", Type: enums.EntryTypeExpense, Amount: 100, TransactionDate: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)},
		{LedgerID: "l1", Type: enums.EntryTypeExpense, Amount: 777, TransactionDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	daily, err := f.svc.GetCalendarSummary(context.Background(), "l1", 2025, 1)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %+v", daily)
	}

	monthly, err := f.svc.GetMonthlySummary(context.Background(), "l1", 2025, 1)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if monthly.TotalIncome != 1000 || monthly.TotalExpense != 500 || monthly.NetAmount != 500 || monthly.TransactionCount != 3 {
		t.Fatalf("unexpected monthly summary %+v", monthly)
	}

	_, err = f.svc.GetMonthlySummary(context.Background(), "l1", 2025, 0)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCategoryMonthlySummary(t *testing.T) {
	f := newFixture(t, "m", stubMembers{"l1|m": enums.MemberRoleMember})
	f.txns.totals = []CategoryTotal{{CategoryID: "food", Amount: 300}, {CategoryID: "transport", Amount: 100}}

	out, err := f.svc.GetCategoryMonthlySummary(context.Background(), "l1", 2025, 1, enums.EntryTypeExpense)
	if err != nil {
		t.Fatalf("category summary: %v", err)
	}
	if len(out) != 2 || out[0].Percentage != 75 {
		t.Fatalf("unexpected summary %+v", out)
	}
	_, err = f.svc.GetCategoryMonthlySummary(context.Background(), "l1", 2025, 1, "transfer")
	expectCode(t, err, pkgerrors.CodeValidation)
}
