package controllers

import (
	"net/http"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/internal/permission"
)

// RoleCatalog lists every stored role with its display copy plus the invitable roles.
func RoleCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"roles":     permission.Catalog(),
			"invitable": permission.InvitableRoles(),
		})
	}
}
