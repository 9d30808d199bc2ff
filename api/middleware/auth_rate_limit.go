package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bugie-app/bugie-backend/api/responses"
	"github.com/bugie-app/bugie-backend/pkg/config"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

// RateLimitStore counts attempts in a fixed window. The redis client
// satisfies it.
type RateLimitStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// RateLimitPolicy bounds attempts on one credential endpoint. A zero limit
// disables that dimension.
type RateLimitPolicy struct {
	Name     string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

// LoginPolicy and RegisterPolicy read the configured limits.
func LoginPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{Name: "login", Window: cfg.LoginWindow, PerIP: cfg.LoginIPLimit, PerEmail: cfg.LoginEmailLimit}
}

func RegisterPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{Name: "register", Window: cfg.RegisterWindow, PerIP: cfg.RegisterIPLimit, PerEmail: cfg.RegisterEmailLimit}
}

func (p RateLimitPolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

// credential bodies are tiny; anything larger is not worth buffering
const rateLimitBodyLimit = 64 << 10

// AuthRateLimit throttles login and registration per client IP and per
// hashed email so passwords cannot be brute forced through the API.
func AuthRateLimit(policy RateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || !policy.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerIP > 0 {
				ip := clientIP(r)
				if !checkLimit(ctx, w, store, logg, policy, "ip", ip, policy.PerIP) {
					return
				}
			}

			if policy.PerEmail > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, rateLimitBodyLimit))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailFromBody(body); email != "" {
					if !checkLimit(ctx, w, store, logg, policy, "email", digest(email), policy.PerEmail) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkLimit counts one attempt for subject and writes the rejection itself
// when the request must stop.
func checkLimit(ctx context.Context, w http.ResponseWriter, store RateLimitStore, logg *logger.Logger, policy RateLimitPolicy, scope, subject string, limit int) bool {
	if subject == "" {
		return true
	}
	key := "rl:" + policy.Name + ":" + scope + ":" + subject
	count, err := store.IncrWithTTL(ctx, key, policy.Window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit store"))
		return false
	}
	if count <= int64(limit) {
		return true
	}

	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":   policy.Name,
			"scope":    scope,
			"attempts": count,
			"limit":    limit,
		}), "auth.rate_limited")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Seconds())))
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
	return false
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:16])
}
