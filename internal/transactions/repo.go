package transactions

import (
	"context"
	"strings"
	"time"

	"github.com/bugie-app/bugie-backend/internal/repo"
	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	"github.com/bugie-app/bugie-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ListFilter narrows a ledger's transaction list. Results are ordered by
// transaction date then id, newest first.
type ListFilter struct {
	LedgerID   string
	CategoryID *string
	Type       *enums.EntryType
	From       *time.Time
	To         *time.Time
	Keyword    string
	Cursor     *pagination.Cursor
	Limit      int
}

// Repository persists transactions and runs the summary aggregates.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads a live transaction.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.DB(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Create inserts a transaction.
func (r *Repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.DB(ctx).Create(txn).Error
}

// Update writes the editable columns of a live transaction.
func (r *Repository) Update(ctx context.Context, txn *models.Transaction) error {
	res := r.DB(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND is_deleted = ?", txn.ID, false).
		Updates(map[string]any{
			"category_id":      txn.CategoryID,
			"amount":           txn.Amount,
			"type":             txn.Type,
			"title":            txn.Title,
			"description":      txn.Description,
			"transaction_date": txn.TransactionDate,
			"transaction_day":  txn.TransactionDay,
			"updated_at":       txn.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete flags a live transaction as deleted in a single conditional update.
func (r *Repository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res := r.DB(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns up to filter.Limit rows after filter.Cursor.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Transaction, error) {
	query := r.DB(ctx).
		Where("ledger_id = ? AND is_deleted = ?", filter.LedgerID, false)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		query = query.Where("transaction_day >= ?", filter.From.Format(DateLayout))
	}
	if filter.To != nil {
		query = query.Where("transaction_day < ?", filter.To.Format(DateLayout))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(keyword))+"%")
	}
	if filter.Cursor != nil {
		date := filter.Cursor.Date.UTC()
		query = query.Where("(transaction_date < ?) OR (transaction_date = ? AND id < ?)", date, date, filter.Cursor.ID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var out []models.Transaction
	if err := query.Order("transaction_date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListInRange returns the live transactions of a ledger whose calendar day
// falls in [from, to).
func (r *Repository) ListInRange(ctx context.Context, ledgerID string, from, to time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.DB(ctx).
		Where("ledger_id = ? AND is_deleted = ? AND transaction_day >= ? AND transaction_day < ?",
			ledgerID, false, from.Format(DateLayout), to.Format(DateLayout)).
		Order("transaction_date, id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryTotals sums live transactions of one type per category for [from, to).
func (r *Repository) CategoryTotals(ctx context.Context, ledgerID string, from, to time.Time, entryType enums.EntryType) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.DB(ctx).
		Table("transactions").
		Select(`transactions.category_id AS category_id,
			categories.name AS category_name,
			categories.color AS color,
			categories.icon AS icon,
			transactions.type AS type,
			SUM(transactions.amount) AS amount,
			COUNT(*) AS transaction_count`).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.ledger_id = ? AND transactions.is_deleted = ? AND transactions.type = ?", ledgerID, false, entryType).
		Where("transactions.transaction_day >= ? AND transactions.transaction_day < ?", from.Format(DateLayout), to.Format(DateLayout)).
		Group("transactions.category_id, categories.name, categories.color, categories.icon, transactions.type").
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
