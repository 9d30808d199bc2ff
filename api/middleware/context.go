package middleware

import (
	"context"

	pkgAuth "github.com/bugie-app/bugie-backend/pkg/auth"
)

// UserIDFromContext returns the authenticated user id, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	id, ok := pkgAuth.IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return id.UserID
}

// AccessIDFromContext returns the session id carried by the access token.
func AccessIDFromContext(ctx context.Context) string {
	id, ok := pkgAuth.IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return id.AccessID
}
