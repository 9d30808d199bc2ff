package transactions

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	MinAmount            = 0
	MaxAmount            = 999_999_999_999
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// CreateTransactionInput carries a new entry. A nil TransactionDate means now
// in the service's default zone.
type CreateTransactionInput struct {
	LedgerID        string          `json:"-"`
	CategoryID      string          `json:"category_id" validate:"required"`
	Amount          float64         `json:"amount" validate:"required"`
	Type            enums.EntryType `json:"type" validate:"required,oneof=income expense"`
	Title           string          `json:"title" validate:"required"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate *EntryDate      `json:"transaction_date,omitempty"`
}

// UpdateTransactionInput carries optional changes to an entry.
type UpdateTransactionInput struct {
	CategoryID      *string          `json:"category_id,omitempty"`
	Amount          *float64         `json:"amount,omitempty"`
	Type            *enums.EntryType `json:"type,omitempty" validate:"omitempty,oneof=income expense"`
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	TransactionDate *EntryDate       `json:"transaction_date,omitempty"`
}

// ValidateAmount rejects non-finite, non-positive and oversized amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return pkgerrors.Validation("올바른 금액을 입력해주세요")
	}
	if amount <= MinAmount {
		return pkgerrors.Validation("금액은 0보다 커야 합니다")
	}
	if amount > MaxAmount {
		return pkgerrors.Validation("금액이 너무 큽니다")
	}
	return nil
}

// ValidateTitle requires 1..100 characters after trimming.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return pkgerrors.Validation("제목을 입력해주세요")
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return pkgerrors.Validation("제목은 100자 이하여야 합니다")
	}
	return nil
}

// ValidateDescription only fails when a description is given and too long.
func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(*description)) > MaxDescriptionLength {
		return pkgerrors.Validation("메모는 500자 이하여야 합니다")
	}
	return nil
}

// ValidateTransactionDate rejects dates later than the same calendar day next year.
func ValidateTransactionDate(date, now time.Time) error {
	if date.After(now.AddDate(1, 0, 0)) {
		return pkgerrors.Validation("거래 날짜는 1년 이후로 설정할 수 없습니다")
	}
	return nil
}

// ValidateCategoryType requires the entry and its category to share a type.
func ValidateCategoryType(txType enums.EntryType, category models.Category) error {
	if txType != category.Type {
		return pkgerrors.BusinessRule("거래 유형과 카테고리 유형이 일치하지 않습니다")
	}
	return nil
}

// RoundAmount rounds half away from zero and validates the result.
func RoundAmount(amount float64) (int64, error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	rounded := decimal.NewFromFloat(amount).Round(0).IntPart()
	if rounded < 1 {
		return 0, pkgerrors.Validation("금액은 1 이상이어야 합니다")
	}
	return rounded, nil
}

// New builds an unsaved entry authored by createdBy.
func New(in CreateTransactionInput, createdBy string, now time.Time) (*models.Transaction, error) {
	amount, err := RoundAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if err := ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(in.Description); err != nil {
		return nil, err
	}
	if !in.Type.IsValid() {
		return nil, pkgerrors.Validation("거래 유형은 income 또는 expense여야 합니다")
	}
	date := now
	if in.TransactionDate != nil {
		date = in.TransactionDate.Time
	}
	if err := ValidateTransactionDate(date, now); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &models.Transaction{
		LedgerID:        in.LedgerID,
		CategoryID:      in.CategoryID,
		CreatedBy:       createdBy,
		Amount:          amount,
		Type:            in.Type,
		Title:           strings.TrimSpace(in.Title),
		Description:     trimDescription(in.Description),
		TransactionDate: date.UTC(),
		TransactionDay:  date.Format(DateLayout),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyUpdate validates and applies only the fields present in in.
func ApplyUpdate(existing models.Transaction, in UpdateTransactionInput, now time.Time) (*models.Transaction, error) {
	if existing.IsDeleted {
		return nil, pkgerrors.BusinessRule("삭제된 거래는 수정할 수 없습니다")
	}
	if in.Amount != nil {
		amount, err := RoundAmount(*in.Amount)
		if err != nil {
			return nil, err
		}
		existing.Amount = amount
	}
	if in.Title != nil {
		if err := ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
		existing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if err := ValidateDescription(in.Description); err != nil {
			return nil, err
		}
		existing.Description = trimDescription(in.Description)
	}
	if in.TransactionDate != nil {
		if err := ValidateTransactionDate(in.TransactionDate.Time, now); err != nil {
			return nil, err
		}
		existing.TransactionDate = in.TransactionDate.UTC()
		existing.TransactionDay = in.TransactionDate.Day()
	}
	if in.Type != nil {
		if !in.Type.IsValid() {
			return nil, pkgerrors.Validation("거래 유형은 income 또는 expense여야 합니다")
		}
		existing.Type = *in.Type
	}
	if in.CategoryID != nil {
		existing.CategoryID = *in.CategoryID
	}
	existing.UpdatedAt = now.UTC()
	return &existing, nil
}

// MarkDeleted returns a soft-deleted copy of existing.
func MarkDeleted(existing models.Transaction, now time.Time) (*models.Transaction, error) {
	if existing.IsDeleted {
		return nil, pkgerrors.BusinessRule("이미 삭제된 거래입니다")
	}
	now = now.UTC()
	existing.IsDeleted = true
	existing.DeletedAt = &now
	existing.UpdatedAt = now
	return &existing, nil
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
