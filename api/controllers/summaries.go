package controllers

import (
	"net/http"
	"time"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/api/validators"
	"github.com/bugie-app/bugie-backend/internal/transactions"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

// parseYearMonth reads ?year=&month=, defaulting to the current UTC month.
func parseYearMonth(r *http.Request, now time.Time) (int, int, error) {
	year, err := validators.ParseQueryInt(r, "year", now.Year(), 1970, 9999)
	if err != nil {
		return 0, 0, err
	}
	month, err := validators.ParseQueryInt(r, "month", int(now.Month()), 1, 12)
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func MonthlySummary(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		year, month, err := parseYearMonth(r, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.GetMonthlySummary(r.Context(), ledgerID, year, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func CalendarSummary(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		year, month, err := parseYearMonth(r, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days, err := svc.GetCalendarSummary(r.Context(), ledgerID, year, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, days)
	}
}

// CategorySummary breaks a month down per category; ?type= defaults to expense.
func CategorySummary(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		year, month, err := parseYearMonth(r, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entryType, err := validators.ParseEntryType(r, "type")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if entryType == nil {
			expense := enums.EntryTypeExpense
			entryType = &expense
		}

		items, err := svc.GetCategoryMonthlySummary(r.Context(), ledgerID, year, month, *entryType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
