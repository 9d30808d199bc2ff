package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugie-app/bugie-backend/pkg/enums"
)

var (
	owner  = RoleOf(enums.MemberRoleOwner)
	admin  = RoleOf(enums.MemberRoleAdmin)
	member = RoleOf(enums.MemberRoleMember)
	viewer = RoleOf(enums.MemberRoleViewer)
)

func TestEffectiveCollapsesNonOwners(t *testing.T) {
	cases := map[enums.MemberRole]EffectiveRole{
		enums.MemberRoleOwner:  EffectiveOwner,
		enums.MemberRoleAdmin:  EffectiveMember,
		enums.MemberRoleMember: EffectiveMember,
		enums.MemberRoleViewer: EffectiveMember,
	}
	for stored, want := range cases {
		got, ok := Effective(stored)
		require.True(t, ok, stored)
		assert.Equal(t, want, got, stored)
	}
	_, ok := Effective("superuser")
	assert.False(t, ok)
}

func TestMatrixIsConsistentWithCollapse(t *testing.T) {
	for _, action := range Actions() {
		memberDecision := CanDo(action, member)
		for _, role := range []*enums.MemberRole{admin, viewer} {
			assert.Equal(t, memberDecision, CanDo(action, role), "action %s role %s", action, *role)
		}
		assert.False(t, CanDo(action, nil), "nil role must be denied for %s", action)
		bogus := enums.MemberRole("bogus")
		assert.False(t, CanDo(action, &bogus), "unknown role must be denied for %s", action)
	}
	assert.Len(t, Actions(), len(matrix))
}

func TestMatrixDecisions(t *testing.T) {
	assert.True(t, CanDo(ActionDeleteLedger, owner))
	assert.False(t, CanDo(ActionDeleteLedger, admin))
	assert.True(t, CanDo(ActionUpdateLedger, member))
	assert.True(t, CanDo(ActionCreateTransaction, owner))
	assert.True(t, CanDo(ActionCreateTransaction, viewer))
	assert.False(t, CanDo(ActionInviteMember, admin))
	assert.True(t, CanDo(ActionLeaveLedger, member))
	assert.False(t, CanDo(ActionLeaveLedger, owner))
	assert.False(t, CanDo("unknownAction", owner))
}

func TestHelpersWrapCanDo(t *testing.T) {
	assert.True(t, IsOwner(owner))
	assert.False(t, IsOwner(admin))
	assert.False(t, IsOwner(nil))
	assert.True(t, CanManageMembers(owner))
	assert.False(t, CanManageMembers(admin))
	assert.True(t, CanEditTransaction(member))
	assert.True(t, CanDeleteTransaction(owner))
	assert.True(t, CanEditLedger(viewer))
	assert.True(t, CanDeleteLedger(owner))
	assert.False(t, CanDeleteLedger(member))
}

func TestCanChangeRole(t *testing.T) {
	assert.True(t, CanChangeRole(owner, member, viewer))
	assert.True(t, CanChangeRole(owner, viewer, admin))
	assert.False(t, CanChangeRole(owner, member, owner), "cannot promote to owner")
	assert.False(t, CanChangeRole(owner, owner, member), "cannot demote an owner")
	assert.False(t, CanChangeRole(admin, member, viewer), "only owner changes roles")
	assert.False(t, CanChangeRole(nil, member, viewer))
	bogus := enums.MemberRole("bogus")
	assert.False(t, CanChangeRole(owner, member, &bogus))
}

func TestCanRemoveMember(t *testing.T) {
	assert.True(t, CanRemoveMember(owner, member))
	assert.True(t, CanRemoveMember(owner, admin))
	assert.False(t, CanRemoveMember(owner, owner))
	assert.False(t, CanRemoveMember(admin, member))
	assert.False(t, CanRemoveMember(owner, nil))
}

func TestInvitableRolesOnlyMember(t *testing.T) {
	assert.Equal(t, []enums.MemberRole{enums.MemberRoleMember}, InvitableRoles())
}

func TestPresentation(t *testing.T) {
	assert.Equal(t, "소유자", RoleDisplayName(owner))
	assert.Equal(t, "관리자", RoleDisplayName(admin))
	assert.Equal(t, "뷰어", RoleDisplayName(viewer))
	assert.Equal(t, "알 수 없음", RoleDisplayName(nil))
	assert.Equal(t, RoleDescription(member), RoleDescription(viewer))
	assert.Empty(t, RoleDescription(nil))
	assert.Equal(t, "star", RoleUI(owner).Icon)
	assert.Equal(t, "help", RoleUI(nil).Icon)
}

func TestCatalogAndSnapshot(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 4)
	assert.Equal(t, enums.MemberRoleOwner, catalog[0].Role)
	for _, info := range catalog {
		assert.Equal(t, info.Role == enums.MemberRoleMember, info.Invitable, info.Role)
	}

	snap := NewSnapshot(enums.MemberRoleViewer)
	assert.Equal(t, EffectiveMember, snap.EffectiveRole)
	assert.True(t, snap.Actions[ActionCreateTransaction])
	assert.False(t, snap.Actions[ActionDeleteLedger])
	assert.Len(t, snap.Actions, len(Actions()))
}
