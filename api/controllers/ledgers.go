package controllers

import (
	"net/http"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/api/validators"
	"github.com/bugie-app/bugie-backend/internal/ledgers"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

func ListLedgers(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}

		items, err := svc.GetUserLedgers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func GetLedger(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		detail, err := svc.GetLedger(r.Context(), ledgerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

func CreateLedger(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}

		var body ledgers.CreateLedgerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := svc.CreateLedger(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ledger)
	}
}

func UpdateLedger(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		var body ledgers.UpdateLedgerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := svc.UpdateLedger(r.Context(), ledgerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ledger)
	}
}

func DeleteLedger(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		if err := svc.DeleteLedger(r.Context(), ledgerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// LedgerPermissions returns the caller's role snapshot for the ledger.
func LedgerPermissions(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		snapshot, err := svc.GetPermissions(r.Context(), ledgerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
