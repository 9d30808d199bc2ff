// Package permission is the role to action authorization matrix shared by the
// services and the HTTP surface.
//
// Memberships store one of four roles. The current product only distinguishes
// two: owner, and everybody else. Effective performs that collapse and is the
// only place it happens.
package permission

import "github.com/bugie-app/bugie-backend/pkg/enums"

type Action string

const (
	ActionUpdateLedger      Action = "updateLedger"
	ActionDeleteLedger      Action = "deleteLedger"
	ActionInviteMember      Action = "inviteMember"
	ActionRemoveMember      Action = "removeMember"
	ActionChangeRole        Action = "changeRole"
	ActionLeaveLedger       Action = "leaveLedger"
	ActionCreateTransaction Action = "createTransaction"
	ActionUpdateTransaction Action = "updateTransaction"
	ActionDeleteTransaction Action = "deleteTransaction"
	ActionCreateCategory    Action = "createCategory"
	ActionUpdateCategory    Action = "updateCategory"
	ActionDeleteCategory    Action = "deleteCategory"
)

// EffectiveRole is the collapsed role the matrix is keyed on.
type EffectiveRole string

const (
	EffectiveOwner  EffectiveRole = "owner"
	EffectiveMember EffectiveRole = "member"
)

var (
	ownerOnly     = []EffectiveRole{EffectiveOwner}
	memberOnly    = []EffectiveRole{EffectiveMember}
	ownerOrMember = []EffectiveRole{EffectiveOwner, EffectiveMember}
)

var matrix = map[Action][]EffectiveRole{
	ActionUpdateLedger:      ownerOrMember,
	ActionDeleteLedger:      ownerOnly,
	ActionInviteMember:      ownerOnly,
	ActionRemoveMember:      ownerOnly,
	ActionChangeRole:        ownerOnly,
	ActionLeaveLedger:       memberOnly,
	ActionCreateTransaction: ownerOrMember,
	ActionUpdateTransaction: ownerOrMember,
	ActionDeleteTransaction: ownerOrMember,
	ActionCreateCategory:    ownerOrMember,
	ActionUpdateCategory:    ownerOrMember,
	ActionDeleteCategory:    ownerOrMember,
}

// Actions lists every action in the matrix in a stable order.
func Actions() []Action {
	return []Action{
		ActionUpdateLedger,
		ActionDeleteLedger,
		ActionInviteMember,
		ActionRemoveMember,
		ActionChangeRole,
		ActionLeaveLedger,
		ActionCreateTransaction,
		ActionUpdateTransaction,
		ActionDeleteTransaction,
		ActionCreateCategory,
		ActionUpdateCategory,
		ActionDeleteCategory,
	}
}

// Effective maps a stored role to the role the matrix understands. The second
// result is false for unknown or empty roles.
func Effective(role enums.MemberRole) (EffectiveRole, bool) {
	switch role {
	case enums.MemberRoleOwner:
		return EffectiveOwner, true
	case enums.MemberRoleAdmin, enums.MemberRoleMember, enums.MemberRoleViewer:
		return EffectiveMember, true
	default:
		return "", false
	}
}

// CanDo reports whether role may perform action. A nil role, an unknown role
// or an unknown action is always denied.
func CanDo(action Action, role *enums.MemberRole) bool {
	if role == nil {
		return false
	}
	effective, ok := Effective(*role)
	if !ok {
		return false
	}
	for _, allowed := range matrix[action] {
		if allowed == effective {
			return true
		}
	}
	return false
}

func IsOwner(role *enums.MemberRole) bool {
	if role == nil {
		return false
	}
	effective, _ := Effective(*role)
	return effective == EffectiveOwner
}

func CanManageMembers(role *enums.MemberRole) bool {
	return CanDo(ActionInviteMember, role) && CanDo(ActionRemoveMember, role)
}

func CanEditTransaction(role *enums.MemberRole) bool {
	return CanDo(ActionUpdateTransaction, role)
}

func CanDeleteTransaction(role *enums.MemberRole) bool {
	return CanDo(ActionDeleteTransaction, role)
}

func CanEditLedger(role *enums.MemberRole) bool {
	return CanDo(ActionUpdateLedger, role)
}

func CanDeleteLedger(role *enums.MemberRole) bool {
	return CanDo(ActionDeleteLedger, role)
}

// CanChangeRole allows only an owner to change roles, and never to or from owner.
// Ownership transfer is a separate process.
func CanChangeRole(current, target, next *enums.MemberRole) bool {
	if !IsOwner(current) || target == nil || next == nil {
		return false
	}
	if IsOwner(target) || IsOwner(next) {
		return false
	}
	return next.IsValid()
}

// CanRemoveMember allows only an owner to remove, and an owner can never be removed.
func CanRemoveMember(current, target *enums.MemberRole) bool {
	if !CanDo(ActionRemoveMember, current) || target == nil {
		return false
	}
	return !IsOwner(target)
}

// InvitableRoles is the set of roles offered when inviting.
func InvitableRoles() []enums.MemberRole {
	return []enums.MemberRole{enums.MemberRoleMember}
}

// Matrix returns the allow decision of every action for role.
func Matrix(role *enums.MemberRole) map[Action]bool {
	out := make(map[Action]bool, len(matrix))
	for _, action := range Actions() {
		out[action] = CanDo(action, role)
	}
	return out
}

// RoleOf is a convenience for building the nullable role argument.
func RoleOf(role enums.MemberRole) *enums.MemberRole {
	return &role
}
