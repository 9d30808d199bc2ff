package controllers

import (
	"net/http"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/api/validators"
	"github.com/bugie-app/bugie-backend/internal/transactions"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"github.com/bugie-app/bugie-backend/pkg/pagination"
)

// ListTransactions pages through a ledger's entries.
// Filters: category_id, type, from, to, keyword, cursor, limit.
func ListTransactions(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		params, err := parseListParams(r, ledgerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.GetTransactions(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func parseListParams(r *http.Request, ledgerID string) (transactions.ListParams, error) {
	params := transactions.ListParams{
		LedgerID:   ledgerID,
		CategoryID: validators.ParseQueryString(r, "category_id"),
	}
	var err error
	if params.Type, err = validators.ParseEntryType(r, "type"); err != nil {
		return params, err
	}
	if params.From, err = validators.ParseQueryTime(r, "from"); err != nil {
		return params, err
	}
	if params.To, err = validators.ParseQueryTime(r, "to"); err != nil {
		return params, err
	}
	if params.Limit, err = validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit); err != nil {
		return params, err
	}
	if keyword := validators.ParseQueryString(r, "keyword"); keyword != nil {
		params.Keyword = *keyword
	}
	if cursor := validators.ParseQueryString(r, "cursor"); cursor != nil {
		params.Cursor = *cursor
	}
	return params, nil
}

func CreateTransaction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		var body transactions.CreateTransactionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.LedgerID = ledgerID

		txn, err := svc.CreateTransaction(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func GetTransaction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}

		txn, err := svc.GetTransaction(r.Context(), pathParam(r, "transactionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, txn)
	}
}

func UpdateTransaction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}

		var body transactions.UpdateTransactionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.UpdateTransaction(r.Context(), pathParam(r, "transactionID"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, txn)
	}
}

func DeleteTransaction(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "transaction service")
			return
		}

		if err := svc.DeleteTransaction(r.Context(), pathParam(r, "transactionID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
