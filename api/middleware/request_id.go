package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/bugie-app/bugie-backend/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// inbound IDs are echoed into logs, so only short opaque tokens are trusted
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// RequestID tags every request with a correlation ID, reusing the caller's
// when it looks sane.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !requestIDPattern.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
