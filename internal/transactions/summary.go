package transactions

import (
	"sort"
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// DateLayout keys daily summaries.
const DateLayout = models.TransactionDateLayout

// DailySummary totals one calendar day.
type DailySummary struct {
	Date             string `json:"date"`
	Income           int64  `json:"income"`
	Expense          int64  `json:"expense"`
	TransactionCount int    `json:"transaction_count"`
}

// MonthlySummary totals one month.
type MonthlySummary struct {
	Year             int   `json:"year"`
	Month            int   `json:"month"`
	TotalIncome      int64 `json:"total_income"`
	TotalExpense     int64 `json:"total_expense"`
	NetAmount        int64 `json:"net_amount"`
	TransactionCount int   `json:"transaction_count"`
}

// CategoryTotal is one row of the per-category aggregate query.
type CategoryTotal struct {
	CategoryID       string          `gorm:"column:category_id"`
	CategoryName     string          `gorm:"column:category_name"`
	Color            string          `gorm:"column:color"`
	Icon             string          `gorm:"column:icon"`
	Type             enums.EntryType `gorm:"column:type"`
	Amount           int64           `gorm:"column:amount"`
	TransactionCount int             `gorm:"column:transaction_count"`
}

// CategorySummary is a category total with its share of the month.
type CategorySummary struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Color            string          `json:"color"`
	Icon             string          `json:"icon"`
	Type             enums.EntryType `json:"type"`
	Amount           int64           `json:"amount"`
	TransactionCount int             `json:"transaction_count"`
	Percentage       float64         `json:"percentage"`
}

// CalculateDailySummary groups live entries by their calendar day, ascending.
// Rows without a stored day fall back to the UTC date.
func CalculateDailySummary(txns []models.Transaction) []DailySummary {
	byDate := make(map[string]*DailySummary)
	for _, txn := range txns {
		if txn.IsDeleted {
			continue
		}
		key := txn.TransactionDay
		if key == "" {
			key = txn.TransactionDate.UTC().Format(DateLayout)
		}
		day, ok := byDate[key]
		if !ok {
			day = &DailySummary{Date: key}
			byDate[key] = day
		}
		switch txn.Type {
		case enums.EntryTypeIncome:
			day.Income += txn.Amount
		case enums.EntryTypeExpense:
			day.Expense += txn.Amount
		}
		day.TransactionCount++
	}

	out := make([]DailySummary, 0, len(byDate))
	for _, day := range byDate {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CalculateMonthlySummary sums daily into a month total.
func CalculateMonthlySummary(year, month int, daily []DailySummary) MonthlySummary {
	summary := MonthlySummary{Year: year, Month: month}
	for _, day := range daily {
		summary.TotalIncome += day.Income
		summary.TotalExpense += day.Expense
		summary.TransactionCount += day.TransactionCount
	}
	summary.NetAmount = summary.TotalIncome - summary.TotalExpense
	return summary
}

// CalculateCategorySummary orders totals by amount and adds each share, rounded to 0.1%.
func CalculateCategorySummary(totals []CategoryTotal) []CategorySummary {
	grand := decimal.Zero
	for _, row := range totals {
		grand = grand.Add(decimal.NewFromInt(row.Amount))
	}

	out := make([]CategorySummary, 0, len(totals))
	for _, row := range totals {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = decimal.NewFromInt(row.Amount).Mul(decimal.NewFromInt(100)).Div(grand).Round(1)
		}
		out = append(out, CategorySummary{
			CategoryID:       row.CategoryID,
			CategoryName:     row.CategoryName,
			Color:            row.Color,
			Icon:             row.Icon,
			Type:             row.Type,
			Amount:           row.Amount,
			TransactionCount: row.TransactionCount,
			Percentage:       pct.InexactFloat64(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// MonthRange returns the half-open interval [from, to) covering year/month.
// Repositories compare its calendar days, not instants.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, pkgerrors.Validation("월은 1에서 12 사이여야 합니다")
	}
	if year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, pkgerrors.Validation("올바른 연도를 입력해주세요")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}
