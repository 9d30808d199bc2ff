package transactions

import (
	"testing"
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 12, 0, 0, 0, time.UTC)
}

func TestDailySummaryUsesStoredCalendarDay(t *testing.T) {
	txns := []models.Transaction{
		{TransactionDate: time.Date(2024, 12, 31, 15, 30, 0, 0, time.UTC), TransactionDay: "2025-01-01", Type: enums.EntryTypeExpense, Amount: 12000},
		{TransactionDate: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), Type: enums.EntryTypeIncome, Amount: 500},
	}

	daily := CalculateDailySummary(txns)
	require.Len(t, daily, 1)
	assert.Equal(t, DailySummary{Date: "2025-01-01", Income: 500, Expense: 12000, TransactionCount: 2}, daily[0])
}

func TestDailyAndMonthlySummary(t *testing.T) {
	txns := []models.Transaction{
		{TransactionDate: day(2), Type: enums.EntryTypeExpense, Amount: 100},
		{TransactionDate: day(1), Type: enums.EntryTypeIncome, Amount: 1000},
		{TransactionDate: day(1), Type: enums.EntryTypeExpense, Amount: 400},
		{TransactionDate: day(1), Type: enums.EntryTypeExpense, Amount: 9999, IsDeleted: true},
	}

	daily := CalculateDailySummary(txns)
	require.Len(t, daily, 2)
	assert.Equal(t, DailySummary{Date: "2025-01-01", Income: 1000, Expense: 400, TransactionCount: 2}, daily[0])
	assert.Equal(t, DailySummary{Date: "2025-01-02", Income: 0, Expense: 100, TransactionCount: 1}, daily[1])

	monthly := CalculateMonthlySummary(2025, 1, daily)
	assert.Equal(t, MonthlySummary{
		Year:             2025,
		Month:            1,
		TotalIncome:      1000,
		TotalExpense:     500,
		NetAmount:        500,
		TransactionCount: 3,
	}, monthly)
}

func TestDailySummaryEmpty(t *testing.T) {
	assert.Empty(t, CalculateDailySummary(nil))
	assert.Equal(t, MonthlySummary{Year: 2025, Month: 2}, CalculateMonthlySummary(2025, 2, nil))
}

func TestCalculateCategorySummary(t *testing.T) {
	out := CalculateCategorySummary([]CategoryTotal{
		{CategoryID: "transport", Amount: 1000, TransactionCount: 1},
		{CategoryID: "food", Amount: 2000, TransactionCount: 3},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "food", out[0].CategoryID)
	assert.InDelta(t, 66.7, out[0].Percentage, 0.001)
	assert.InDelta(t, 33.3, out[1].Percentage, 0.001)

	zero := CalculateCategorySummary([]CategoryTotal{{CategoryID: "x"}})
	assert.Equal(t, 0.0, zero[0].Percentage)
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange(2024, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = MonthRange(2024, 13)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
