package transactions

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// TransactionDTO is the transport shape of one entry.
type TransactionDTO struct {
	ID              string          `json:"id"`
	LedgerID        string          `json:"ledger_id"`
	CategoryID      string          `json:"category_id"`
	CreatedBy       string          `json:"created_by"`
	Amount          int64           `json:"amount"`
	Type            enums.EntryType `json:"type"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate string          `json:"transaction_date"`
	TransactionDay  string          `json:"transaction_day"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// Page is one page of a transaction listing.
type Page struct {
	Items      []TransactionDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ListParams are the caller-facing listing filters.
type ListParams struct {
	LedgerID   string           `json:"ledger_id" validate:"required"`
	CategoryID *string          `json:"category_id,omitempty"`
	Type       *enums.EntryType `json:"type,omitempty"`
	From       *time.Time       `json:"from,omitempty"`
	To         *time.Time       `json:"to,omitempty"`
	Keyword    string           `json:"keyword,omitempty"`
	Cursor     string           `json:"cursor,omitempty"`
	Limit      int              `json:"limit,omitempty"`
}

func ToDTO(t *models.Transaction) *TransactionDTO {
	if t == nil {
		return nil
	}
	var description *string
	if t.Description != nil {
		d := *t.Description
		description = &d
	}
	return &TransactionDTO{
		ID:              t.ID,
		LedgerID:        t.LedgerID,
		CategoryID:      t.CategoryID,
		CreatedBy:       t.CreatedBy,
		Amount:          t.Amount,
		Type:            t.Type,
		Title:           t.Title,
		Description:     description,
		TransactionDate: t.TransactionDate.UTC().Format(time.RFC3339),
		TransactionDay:  t.TransactionDay,
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
