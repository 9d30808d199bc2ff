package permission

import "github.com/bugie-app/bugie-backend/pkg/enums"

// RoleUIConfig is what a client needs to render a role badge.
type RoleUIConfig struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	BadgeColor  string `json:"badge_color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type roleCopy struct {
	displayName string
	description string
	color       string
	badgeColor  string
	icon        string
}

var effectiveCopy = map[EffectiveRole]roleCopy{
	EffectiveOwner: {
		displayName: "소유자",
		description: "가계부의 모든 권한을 가지며 멤버를 초대하거나 내보낼 수 있습니다",
		color:       "#7C3AED",
		badgeColor:  "#EDE9FE",
		icon:        "star",
	},
	EffectiveMember: {
		displayName: "멤버",
		description: "거래 내역과 카테고리를 추가하고 수정할 수 있습니다",
		color:       "#2563EB",
		badgeColor:  "#DBEAFE",
		icon:        "person",
	},
}

// storedDisplayNames keeps the stored role names readable even though they
// render with the effective role's styling.
var storedDisplayNames = map[enums.MemberRole]string{
	enums.MemberRoleOwner:  "소유자",
	enums.MemberRoleAdmin:  "관리자",
	enums.MemberRoleMember: "멤버",
	enums.MemberRoleViewer: "뷰어",
}

const unknownRoleLabel = "알 수 없음"

func copyFor(role *enums.MemberRole) (roleCopy, bool) {
	if role == nil {
		return roleCopy{}, false
	}
	effective, ok := Effective(*role)
	if !ok {
		return roleCopy{}, false
	}
	return effectiveCopy[effective], true
}

func RoleDisplayName(role *enums.MemberRole) string {
	if role == nil {
		return unknownRoleLabel
	}
	if name, ok := storedDisplayNames[*role]; ok {
		return name
	}
	return unknownRoleLabel
}

func RoleDescription(role *enums.MemberRole) string {
	c, ok := copyFor(role)
	if !ok {
		return ""
	}
	return c.description
}

func RoleUI(role *enums.MemberRole) RoleUIConfig {
	c, ok := copyFor(role)
	if !ok {
		return RoleUIConfig{Label: unknownRoleLabel, Color: "#6B7280", BadgeColor: "#F3F4F6", Icon: "help"}
	}
	return RoleUIConfig{
		Label:       c.displayName,
		Color:       c.color,
		BadgeColor:  c.badgeColor,
		Icon:        c.icon,
		Description: c.description,
	}
}

// RoleInfo describes one stored role for the role catalogue.
type RoleInfo struct {
	Role          enums.MemberRole `json:"role"`
	EffectiveRole EffectiveRole    `json:"effective_role"`
	DisplayName   string           `json:"display_name"`
	Description   string           `json:"description"`
	UI            RoleUIConfig     `json:"ui"`
	Invitable     bool             `json:"invitable"`
}

// Catalog describes every stored role.
func Catalog() []RoleInfo {
	invitable := map[enums.MemberRole]bool{}
	for _, r := range InvitableRoles() {
		invitable[r] = true
	}
	roles := enums.MemberRoles()
	out := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		role := r
		effective, _ := Effective(role)
		out = append(out, RoleInfo{
			Role:          role,
			EffectiveRole: effective,
			DisplayName:   RoleDisplayName(&role),
			Description:   RoleDescription(&role),
			UI:            RoleUI(&role),
			Invitable:     invitable[role],
		})
	}
	return out
}

// Snapshot is the caller's permission view of one ledger.
type Snapshot struct {
	Role          enums.MemberRole `json:"role"`
	EffectiveRole EffectiveRole    `json:"effective_role"`
	DisplayName   string           `json:"display_name"`
	Actions       map[Action]bool  `json:"actions"`
	UI            RoleUIConfig     `json:"ui"`
}

func NewSnapshot(role enums.MemberRole) Snapshot {
	effective, _ := Effective(role)
	return Snapshot{
		Role:          role,
		EffectiveRole: effective,
		DisplayName:   RoleDisplayName(&role),
		Actions:       Matrix(&role),
		UI:            RoleUI(&role),
	}
}
