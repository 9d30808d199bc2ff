package categories

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
)

const (
	MaxNameLength    = 20
	DefaultColor     = "#9CA3AF"
	DefaultIcon      = "ellipsis-horizontal"
	DefaultSortOrder = 999
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreateCategoryInput describes a ledger-specific category.
type CreateCategoryInput struct {
	LedgerID  string          `json:"-"`
	Name      string          `json:"name" validate:"required"`
	Type      enums.EntryType `json:"type" validate:"required,oneof=income expense"`
	Color     *string         `json:"color,omitempty"`
	Icon      *string         `json:"icon,omitempty"`
	SortOrder *int            `json:"sort_order,omitempty"`
}

// UpdateCategoryInput carries optional category changes.
type UpdateCategoryInput struct {
	Name      *string `json:"name,omitempty"`
	Color     *string `json:"color,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// ValidateName requires a trimmed name of at most 20 characters.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return pkgerrors.Validation("카테고리 이름을 입력해주세요")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return pkgerrors.Validation("카테고리 이름은 20자 이하여야 합니다")
	}
	return nil
}

func validateColor(color string) error {
	if !hexColor.MatchString(color) {
		return pkgerrors.Validation("색상은 #RRGGBB 형식이어야 합니다")
	}
	return nil
}

func validateIcon(icon string) error {
	if strings.TrimSpace(icon) == "" {
		return pkgerrors.Validation("아이콘을 선택해주세요")
	}
	return nil
}

// NewCustomCategory builds an unsaved, non-template category.
func NewCustomCategory(in CreateCategoryInput, now time.Time) (*models.Category, error) {
	if err := ValidateName(in.Name); err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, pkgerrors.Validation("카테고리 유형은 income 또는 expense여야 합니다")
	}
	color := DefaultColor
	if in.Color != nil {
		color = strings.TrimSpace(*in.Color)
		if err := validateColor(color); err != nil {
			return nil, err
		}
	}
	icon := DefaultIcon
	if in.Icon != nil {
		icon = strings.TrimSpace(*in.Icon)
		if err := validateIcon(icon); err != nil {
			return nil, err
		}
	}
	sortOrder := DefaultSortOrder
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}
	now = now.UTC()
	return &models.Category{
		LedgerID:   in.LedgerID,
		Name:       strings.TrimSpace(in.Name),
		Type:       in.Type,
		Color:      color,
		Icon:       icon,
		SortOrder:  sortOrder,
		IsTemplate: false,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// FromTemplate instantiates tpl inside ledgerID.
func FromTemplate(ledgerID string, tpl models.CategoryTemplate, now time.Time) *models.Category {
	now = now.UTC()
	templateID := tpl.ID
	return &models.Category{
		LedgerID:   ledgerID,
		Name:       tpl.Name,
		Type:       tpl.Type,
		Color:      tpl.Color,
		Icon:       tpl.Icon,
		SortOrder:  tpl.SortOrder,
		IsTemplate: true,
		TemplateID: &templateID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ApplyUpdate merges in into a copy of existing. Template-backed categories
// only accept a new sort order.
func ApplyUpdate(existing models.Category, in UpdateCategoryInput, now time.Time) (*models.Category, error) {
	if !existing.IsActive {
		return nil, pkgerrors.BusinessRule("삭제된 카테고리는 수정할 수 없습니다")
	}
	if existing.IsTemplate && (in.Name != nil || in.Color != nil || in.Icon != nil) {
		return nil, pkgerrors.BusinessRule("기본 카테고리는 순서만 변경할 수 있습니다")
	}
	if in.Name != nil {
		if err := ValidateName(*in.Name); err != nil {
			return nil, err
		}
		existing.Name = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if err := validateColor(color); err != nil {
			return nil, err
		}
		existing.Color = color
	}
	if in.Icon != nil {
		icon := strings.TrimSpace(*in.Icon)
		if err := validateIcon(icon); err != nil {
			return nil, err
		}
		existing.Icon = icon
	}
	if in.SortOrder != nil {
		existing.SortOrder = *in.SortOrder
	}
	existing.UpdatedAt = now.UTC()
	return &existing, nil
}
