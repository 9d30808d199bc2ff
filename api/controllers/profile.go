package controllers

import (
	"net/http"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/api/validators"
	"github.com/bugie-app/bugie-backend/internal/profiles"
	pkgAuth "github.com/bugie-app/bugie-backend/pkg/auth"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

type deleteAccountRequest struct {
	Confirmation *string `json:"confirmation"`
}

func GetProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "profile service")
			return
		}

		profile, err := svc.GetCurrentProfile(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

func UpdateProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "profile service")
			return
		}

		var body profiles.UpdateProfileInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// CheckDeleteAccount reports whether the caller may delete their account right now.
func CheckDeleteAccount(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "profile service")
			return
		}

		check, err := svc.CheckDeleteAccount(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, check)
	}
}

// DeleteAccount removes the caller's own account after the typed confirmation.
func DeleteAccount(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "profile service")
			return
		}

		identity, ok := pkgAuth.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "로그인이 필요합니다"))
			return
		}

		// the confirmation phrase is optional, so an empty body is accepted
		var body deleteAccountRequest
		if err := validators.DecodeOptionalJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.DeleteAccount(r.Context(), profiles.DeleteAccountInput{
			UserID:       identity.UserID,
			Confirmation: body.Confirmation,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
