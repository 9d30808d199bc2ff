package controllers

import (
	"net/http"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/api/validators"
	"github.com/bugie-app/bugie-backend/internal/categories"
	"github.com/bugie-app/bugie-backend/internal/ledgers"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

// ListCategories returns the ledger's active categories, optionally filtered by ?type=.
func ListCategories(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		entryType, err := validators.ParseEntryType(r, "type")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.GetCategories(r.Context(), ledgerID, entryType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func CreateCategory(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		var body categories.CreateCategoryInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.LedgerID = ledgerID

		category, err := svc.AddCustomCategory(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func UpdateCategory(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		var body categories.UpdateCategoryInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), ledgerID, pathParam(r, "categoryID"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, category)
	}
}

func DeleteCategory(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		if err := svc.DeleteCategory(r.Context(), ledgerID, pathParam(r, "categoryID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
