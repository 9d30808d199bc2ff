package controllers

import (
	"net/http"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/api/validators"
	"github.com/bugie-app/bugie-backend/internal/ledgers"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

type updateMemberRoleRequest struct {
	Role enums.MemberRole `json:"role" validate:"required"`
}

func InviteMember(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		var body ledgers.InviteMemberInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.LedgerID = ledgerID

		member, err := svc.InviteMember(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, member)
	}
}

func UpdateMemberRole(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		var body updateMemberRoleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.UpdateMemberRole(r.Context(), ledgerID, pathParam(r, "userID"), body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, member)
	}
}

func RemoveMember(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		if err := svc.RemoveMember(r.Context(), ledgerID, pathParam(r, "userID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

func LeaveLedger(svc ledgers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "ledger service")
			return
		}
		r, ledgerID := withLedger(r, logg)

		if err := svc.LeaveLedger(r.Context(), ledgerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
