package ledgers

import (
	"context"
	"testing"
	"time"

	"github.com/bugie-app/bugie-backend/internal/categories"
	"github.com/bugie-app/bugie-backend/internal/memberships"
	"github.com/bugie-app/bugie-backend/pkg/auth"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type stubAuth struct{ user *auth.Identity }

func (s stubAuth) CurrentUser(context.Context) (*auth.Identity, error) { return s.user, nil }

type stubLedgers struct {
	items   map[string]*models.Ledger
	created struct {
		owner      *models.LedgerMember
		categories []models.Category
	}
}

func newStubLedgers() *stubLedgers { return &stubLedgers{items: map[string]*models.Ledger{}} }

func (s *stubLedgers) CreateWithOwner(_ context.Context, ledger *models.Ledger, owner *models.LedgerMember, cats []models.Category) error {
	s.items[ledger.ID] = ledger
	s.created.owner = owner
	s.created.categories = cats
	return nil
}

func (s *stubLedgers) FindByID(_ context.Context, id string) (*models.Ledger, error) {
	if l, ok := s.items[id]; ok && !l.IsDeleted {
		dup := *l
		return &dup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLedgers) Update(_ context.Context, ledger *models.Ledger) error {
	s.items[ledger.ID] = ledger
	return nil
}

func (s *stubLedgers) SoftDelete(_ context.Context, id string, at time.Time) error {
	l, ok := s.items[id]
	if !ok || l.IsDeleted {
		return gorm.ErrRecordNotFound
	}
	l.IsDeleted = true
	l.DeletedAt = &at
	return nil
}

type stubMembers struct {
	rows map[string]*models.LedgerMember
}

func newStubMembers() *stubMembers { return &stubMembers{rows: map[string]*models.LedgerMember{}} }

func key(ledgerID, userID string) string { return ledgerID + "|" + userID }

func (s *stubMembers) add(ledgerID, userID string, role enums.MemberRole, active bool) {
	s.rows[key(ledgerID, userID)] = &models.LedgerMember{ID: "m-" + userID, LedgerID: ledgerID, UserID: userID, Role: role, IsActive: active, JoinedAt: testNow}
}

func (s *stubMembers) Get(_ context.Context, ledgerID, userID string) (*models.LedgerMember, error) {
	if m, ok := s.rows[key(ledgerID, userID)]; ok {
		dup := *m
		return &dup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMembers) GetActive(ctx context.Context, ledgerID, userID string) (*models.LedgerMember, error) {
	m, err := s.Get(ctx, ledgerID, userID)
	if err != nil || !m.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *stubMembers) ListLedgerMembers(_ context.Context, ledgerID string) ([]memberships.MemberWithProfile, error) {
	var out []memberships.MemberWithProfile
	for _, m := range s.rows {
		if m.LedgerID == ledgerID && m.IsActive {
			out = append(out, memberships.MemberWithProfile{LedgerMember: *m, Email: m.UserID + "@example.com"})
		}
	}
	return out, nil
}

func (s *stubMembers) ListUserLedgers(_ context.Context, userID string) ([]memberships.MembershipWithLedger, error) {
	var out []memberships.MembershipWithLedger
	for _, m := range s.rows {
		if m.UserID == userID && m.IsActive {
			out = append(out, memberships.MembershipWithLedger{LedgerMember: *m, LedgerName: "Home", LedgerCreatedAt: testNow, LedgerUpdatedAt: testNow})
		}
	}
	return out, nil
}

func (s *stubMembers) Create(_ context.Context, member *models.LedgerMember) error {
	s.rows[key(member.LedgerID, member.UserID)] = member
	return nil
}

func (s *stubMembers) Reactivate(_ context.Context, id string, role enums.MemberRole, at time.Time) error {
	for _, m := range s.rows {
		if m.ID == id {
			m.IsActive = true
			m.Role = role
			m.JoinedAt = at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubMembers) UpdateRole(_ context.Context, ledgerID, userID string, role enums.MemberRole, _ time.Time) error {
	m, ok := s.rows[key(ledgerID, userID)]
	if !ok || !m.IsActive {
		return gorm.ErrRecordNotFound
	}
	m.Role = role
	return nil
}

func (s *stubMembers) Deactivate(_ context.Context, ledgerID, userID string, _ time.Time) error {
	m, ok := s.rows[key(ledgerID, userID)]
	if !ok || !m.IsActive {
		return gorm.ErrRecordNotFound
	}
	m.IsActive = false
	return nil
}

type stubCategories struct {
	templates []models.CategoryTemplate
	items     map[string]*models.Category
	outcome   categories.DeactivateOutcome
}

func newStubCategories() *stubCategories {
	return &stubCategories{
		templates: []models.CategoryTemplate{
			{ID: "tpl-expense-food", Name: "식비", Type: enums.EntryTypeExpense, Color: "#EF4444", Icon: "restaurant", SortOrder: 1},
			{ID: "tpl-income-salary", Name: "급여", Type: enums.EntryTypeIncome, Color: "#22C55E", Icon: "cash", SortOrder: 1},
		},
		items: map[string]*models.Category{},
	}
}

func (s *stubCategories) ListTemplates(context.Context) ([]models.CategoryTemplate, error) {
	return s.templates, nil
}

func (s *stubCategories) ListByLedger(_ context.Context, ledgerID string, _ *enums.EntryType) ([]models.Category, error) {
	var out []models.Category
	for _, c := range s.items {
		if c.LedgerID == ledgerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubCategories) FindActive(_ context.Context, id string) (*models.Category, error) {
	if c, ok := s.items[id]; ok && c.IsActive {
		dup := *c
		return &dup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategories) Create(_ context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = "cat-new"
	}
	s.items[category.ID] = category
	return nil
}

func (s *stubCategories) Update(_ context.Context, category *models.Category) error {
	s.items[category.ID] = category
	return nil
}

func (s *stubCategories) DeactivateIfUnused(context.Context, string, string, time.Time) (categories.DeactivateOutcome, error) {
	return s.outcome, nil
}

type stubProfiles map[string]*models.Profile

func (s stubProfiles) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	if p, ok := s[email]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fixture struct {
	svc        Service
	ledgers    *stubLedgers
	members    *stubMembers
	categories *stubCategories
}

func newFixture(t *testing.T, userID string) *fixture {
	t.Helper()
	f := &fixture{ledgers: newStubLedgers(), members: newStubMembers(), categories: newStubCategories()}
	var user *auth.Identity
	if userID != "" {
		user = &auth.Identity{UserID: userID, Email: userID + "@example.com"}
	}
	svc, err := NewService(ServiceParams{
		Auth:       stubAuth{user: user},
		Ledgers:    f.ledgers,
		Members:    f.members,
		Categories: f.categories,
		Profiles: stubProfiles{
			"friend@example.com": {ID: "friend", Email: "friend@example.com"},
		},
		Now: func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedLedger(id, ownerID string) {
	f.ledgers.items[id] = &models.Ledger{ID: id, Name: "Home", Currency: enums.CurrencyKRW, CreatedBy: ownerID, CreatedAt: testNow, UpdatedAt: testNow}
	f.members.add(id, ownerID, enums.MemberRoleOwner, true)
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if !pkgerrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected error for missing dependencies")
	}
}

func TestUnauthenticatedCallsFail(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.svc.GetUserLedgers(context.Background())
	expectCode(t, err, pkgerrors.CodeUnauthorized)
	_, err = f.svc.CreateLedger(context.Background(), CreateLedgerInput{Name: "Home"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestCreateLedgerAddsOwnerAndTemplateCategories(t *testing.T) {
	f := newFixture(t, "owner")
	dto, err := f.svc.CreateLedger(context.Background(), CreateLedgerInput{Name: "  우리집  "})
	if err != nil {
		t.Fatalf("create ledger: %v", err)
	}
	if dto.Name != "우리집" || dto.Currency != enums.CurrencyKRW || dto.CreatedBy != "owner" {
		t.Fatalf("unexpected ledger dto %+v", dto)
	}
	if dto.CreatedAt != "2025-03-01T09:00:00Z" {
		t.Fatalf("expected RFC3339 created_at, got %q", dto.CreatedAt)
	}
	owner := f.ledgers.created.owner
	if owner == nil || owner.Role != enums.MemberRoleOwner || owner.LedgerID != dto.ID || !owner.IsActive {
		t.Fatalf("unexpected owner membership %+v", owner)
	}
	cats := f.ledgers.created.categories
	if len(cats) != 2 {
		t.Fatalf("expected a category per template, got %d", len(cats))
	}
	for _, c := range cats {
		if !c.IsTemplate || c.TemplateID == nil || c.LedgerID != dto.ID {
			t.Fatalf("unexpected starter category %+v", c)
		}
	}
}

func TestCreateLedgerValidatesName(t *testing.T) {
	f := newFixture(t, "owner")
	_, err := f.svc.CreateLedger(context.Background(), CreateLedgerInput{Name: " "})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestGetLedgerRequiresMembership(t *testing.T) {
	f := newFixture(t, "stranger")
	f.seedLedger("l1", "owner")
	_, err := f.svc.GetLedger(context.Background(), "l1")
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestGetLedgerIncludesMembers(t *testing.T) {
	f := newFixture(t, "owner")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "friend", enums.MemberRoleMember, true)

	detail, err := f.svc.GetLedger(context.Background(), "l1")
	if err != nil {
		t.Fatalf("get ledger: %v", err)
	}
	if detail.MyRole != enums.MemberRoleOwner || len(detail.Members) != 2 {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestViewerCannotUpdateLedger(t *testing.T) {
	f := newFixture(t, "viewer")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "viewer", enums.MemberRoleViewer, true)

	name := "new"
	_, err := f.svc.UpdateLedger(context.Background(), "l1", UpdateLedgerInput{Name: &name})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestMemberUpdatesLedger(t *testing.T) {
	f := newFixture(t, "friend")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "friend", enums.MemberRoleMember, true)

	name := "Trip"
	dto, err := f.svc.UpdateLedger(context.Background(), "l1", UpdateLedgerInput{Name: &name})
	if err != nil {
		t.Fatalf("update ledger: %v", err)
	}
	if dto.Name != "Trip" || f.ledgers.items["l1"].Name != "Trip" {
		t.Fatalf("expected rename to persist, got %+v", dto)
	}
}

func TestDeleteLedgerOwnerOnly(t *testing.T) {
	f := newFixture(t, "admin")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "admin", enums.MemberRoleAdmin, true)
	expectCode(t, f.svc.DeleteLedger(context.Background(), "l1"), pkgerrors.CodeUnauthorized)

	owner := newFixture(t, "owner")
	owner.seedLedger("l1", "owner")
	if err := owner.svc.DeleteLedger(context.Background(), "l1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if !owner.ledgers.items["l1"].IsDeleted {
		t.Fatalf("expected ledger to be soft deleted")
	}
}

func TestInviteMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	f.seedLedger("l1", "owner")

	_, err := f.svc.InviteMember(ctx, InviteMemberInput{LedgerID: "l1", Email: "nobody@example.com"})
	expectCode(t, err, pkgerrors.CodeNotFound)

	dto, err := f.svc.InviteMember(ctx, InviteMemberInput{LedgerID: "l1", Email: " Friend@Example.com "})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if dto.UserID != "friend" || dto.Role != enums.MemberRoleMember {
		t.Fatalf("unexpected member %+v", dto)
	}

	_, err = f.svc.InviteMember(ctx, InviteMemberInput{LedgerID: "l1", Email: "friend@example.com"})
	expectCode(t, err, pkgerrors.CodeBusinessRule)

	ownerRole := enums.MemberRoleOwner
	_, err = f.svc.InviteMember(ctx, InviteMemberInput{LedgerID: "l1", Email: "friend@example.com", Role: &ownerRole})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestInviteReactivatesRemovedMember(t *testing.T) {
	f := newFixture(t, "owner")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "friend", enums.MemberRoleMember, false)

	viewer := enums.MemberRoleViewer
	dto, err := f.svc.InviteMember(context.Background(), InviteMemberInput{LedgerID: "l1", Email: "friend@example.com", Role: &viewer})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if dto.Role != enums.MemberRoleViewer || !f.members.rows[key("l1", "friend")].IsActive {
		t.Fatalf("expected reactivated viewer, got %+v", dto)
	}
}

func TestMemberCannotInvite(t *testing.T) {
	f := newFixture(t, "friend")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "friend", enums.MemberRoleMember, true)
	_, err := f.svc.InviteMember(context.Background(), InviteMemberInput{LedgerID: "l1", Email: "x@example.com"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestUpdateMemberRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "friend", enums.MemberRoleMember, true)

	dto, err := f.svc.UpdateMemberRole(ctx, "l1", "friend", enums.MemberRoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if dto.Role != enums.MemberRoleAdmin {
		t.Fatalf("expected admin, got %s", dto.Role)
	}

	_, err = f.svc.UpdateMemberRole(ctx, "l1", "friend", enums.MemberRoleOwner)
	expectCode(t, err, pkgerrors.CodeBusinessRule)

	_, err = f.svc.UpdateMemberRole(ctx, "l1", "owner", enums.MemberRoleMember)
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = f.svc.UpdateMemberRole(ctx, "l1", "ghost", enums.MemberRoleMember)
	expectCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.UpdateMemberRole(ctx, "l1", "friend", "superuser")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestRemoveMemberAndLeave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "friend", enums.MemberRoleMember, true)

	expectCode(t, f.svc.RemoveMember(ctx, "l1", "owner"), pkgerrors.CodeBusinessRule)
	if err := f.svc.RemoveMember(ctx, "l1", "friend"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if f.members.rows[key("l1", "friend")].IsActive {
		t.Fatalf("expected member to be deactivated")
	}
	expectCode(t, f.svc.LeaveLedger(ctx, "l1"), pkgerrors.CodeBusinessRule)

	leaver := newFixture(t, "friend")
	leaver.seedLedger("l1", "owner")
	leaver.members.add("l1", "friend", enums.MemberRoleViewer, true)
	if err := leaver.svc.LeaveLedger(ctx, "l1"); err != nil {
		t.Fatalf("leave ledger: %v", err)
	}
	expectCode(t, leaver.svc.RemoveMember(ctx, "l1", "owner"), pkgerrors.CodeUnauthorized)
}

func TestGetPermissionsUsesEffectiveRole(t *testing.T) {
	f := newFixture(t, "admin")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "admin", enums.MemberRoleAdmin, true)

	snapshot, err := f.svc.GetPermissions(context.Background(), "l1")
	if err != nil {
		t.Fatalf("get permissions: %v", err)
	}
	if snapshot.Role != enums.MemberRoleAdmin {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestCategoryOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "owner")
	f.seedLedger("l1", "owner")

	created, err := f.svc.AddCustomCategory(ctx, categories.CreateCategoryInput{LedgerID: "l1", Name: "반려동물", Type: enums.EntryTypeExpense})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if created.Color != categories.DefaultColor || created.IsTemplate {
		t.Fatalf("unexpected category %+v", created)
	}

	list, err := f.svc.GetCategories(ctx, "l1", nil)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one category, got %v %v", list, err)
	}

	name := "펫"
	updated, err := f.svc.UpdateCategory(ctx, "l1", created.ID, categories.UpdateCategoryInput{Name: &name})
	if err != nil || updated.Name != "펫" {
		t.Fatalf("update category: %+v %v", updated, err)
	}
	_, err = f.svc.UpdateCategory(ctx, "other", created.ID, categories.UpdateCategoryInput{Name: &name})
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	f.categories.outcome = categories.CategoryInUse
	expectCode(t, f.svc.DeleteCategory(ctx, "l1", created.ID), pkgerrors.CodeBusinessRule)
	f.categories.outcome = categories.CategoryMissing
	expectCode(t, f.svc.DeleteCategory(ctx, "l1", created.ID), pkgerrors.CodeNotFound)
	f.categories.outcome = categories.Deactivated
	if err := f.svc.DeleteCategory(ctx, "l1", created.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
}

func TestViewerCannotAddCategory(t *testing.T) {
	f := newFixture(t, "viewer")
	f.seedLedger("l1", "owner")
	f.members.add("l1", "viewer", enums.MemberRoleViewer, true)
	_, err := f.svc.AddCustomCategory(context.Background(), categories.CreateCategoryInput{LedgerID: "l1", Name: "x", Type: enums.EntryTypeIncome})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}
