package middleware

import (
	"net/http"
	"strings"

	"github.com/bugie-app/bugie-backend/api/responses"
	pkgAuth "github.com/bugie-app/bugie-backend/pkg/auth"
	"github.com/bugie-app/bugie-backend/pkg/auth/session"
	"github.com/bugie-app/bugie-backend/pkg/config"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the caller identity.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "session unavailable"))
					return
				}
			}

			ctx := pkgAuth.WithIdentity(r.Context(), pkgAuth.Identity{
				UserID:   claims.UserID,
				Email:    claims.Email,
				AccessID: claims.ID,
			})
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
