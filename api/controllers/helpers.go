package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugie-app/bugie-backend/api/responses"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

func writeUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable"))
}

func pathParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// withLedger reads {ledgerID} and tags the log context with it.
func withLedger(r *http.Request, logg *logger.Logger) (*http.Request, string) {
	ledgerID := pathParam(r, "ledgerID")
	if logg == nil || ledgerID == "" {
		return r, ledgerID
	}
	return r.WithContext(logg.WithLedgerID(r.Context(), ledgerID)), ledgerID
}
