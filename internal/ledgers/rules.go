package ledgers

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
)

// MaxNameLength bounds a ledger name in characters.
const MaxNameLength = 50

// CreateLedgerInput carries the caller-provided ledger fields.
type CreateLedgerInput struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Currency    *enums.Currency `json:"currency,omitempty"`
}

// UpdateLedgerInput carries optional ledger changes; nil fields are left untouched.
type UpdateLedgerInput struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Currency    *enums.Currency `json:"currency,omitempty"`
}

// ValidateName checks that the trimmed name is 1..50 characters.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return pkgerrors.Validation("가계부 이름을 입력해주세요")
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return pkgerrors.Validation("가계부 이름은 50자 이하여야 합니다")
	}
	return nil
}

func validateCurrency(currency *enums.Currency) error {
	if currency != nil && !currency.IsValid() {
		return pkgerrors.Validation("지원하지 않는 통화입니다")
	}
	return nil
}

// NewLedger builds an unsaved ledger owned by createdBy.
func NewLedger(in CreateLedgerInput, createdBy string, now time.Time) (*models.Ledger, error) {
	if err := ValidateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateCurrency(in.Currency); err != nil {
		return nil, err
	}
	currency := enums.DefaultCurrency
	if in.Currency != nil {
		currency = *in.Currency
	}
	now = now.UTC()
	return &models.Ledger{
		Name:        strings.TrimSpace(in.Name),
		Description: trimDescription(in.Description),
		Currency:    currency,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyUpdate merges in into a copy of existing.
func ApplyUpdate(existing models.Ledger, in UpdateLedgerInput, now time.Time) (*models.Ledger, error) {
	if existing.IsDeleted {
		return nil, pkgerrors.BusinessRule("삭제된 가계부는 수정할 수 없습니다")
	}
	if in.Name != nil {
		if err := ValidateName(*in.Name); err != nil {
			return nil, err
		}
		existing.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		existing.Description = trimDescription(in.Description)
	}
	if in.Currency != nil {
		if err := validateCurrency(in.Currency); err != nil {
			return nil, err
		}
		existing.Currency = *in.Currency
	}
	existing.UpdatedAt = now.UTC()
	return &existing, nil
}

// CanDelete reports whether userID created the ledger and it is still live.
func CanDelete(ledger models.Ledger, userID string) bool {
	return ledger.CreatedBy == userID && !ledger.IsDeleted
}

// MarkDeleted returns a soft-deleted copy of ledger.
func MarkDeleted(ledger models.Ledger, now time.Time) (*models.Ledger, error) {
	if ledger.IsDeleted {
		return nil, pkgerrors.BusinessRule("이미 삭제된 가계부입니다")
	}
	now = now.UTC()
	ledger.IsDeleted = true
	ledger.DeletedAt = &now
	ledger.UpdatedAt = now
	return &ledger, nil
}

func trimDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
