package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bugie-app/bugie-backend/api/controllers"
	"github.com/bugie-app/bugie-backend/api/middleware"
	"github.com/bugie-app/bugie-backend/internal/auth"
	"github.com/bugie-app/bugie-backend/internal/ledgers"
	"github.com/bugie-app/bugie-backend/internal/profiles"
	"github.com/bugie-app/bugie-backend/internal/transactions"
	"github.com/bugie-app/bugie-backend/pkg/auth/session"
	"github.com/bugie-app/bugie-backend/pkg/config"
	"github.com/bugie-app/bugie-backend/pkg/logger"
	"github.com/bugie-app/bugie-backend/pkg/metrics"
)

// Deps carries everything the router hands to middleware and controllers.
// Nil stores disable the feature that depends on them.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker

	RateLimits  middleware.RateLimitStore
	Idempotency middleware.IdempotencyStore
	Readiness   map[string]controllers.Pinger

	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	Auth         auth.Service
	Ledgers      ledgers.Service
	Transactions transactions.Service
	Profiles     profiles.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Metrics(d.Metrics),
		middleware.Logging(logg),
	)

	idempotency := middleware.Idempotency(d.Idempotency, cfg.Idempotency.TTL, logg)
	authenticate := middleware.Auth(cfg.JWT, d.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Readiness, logg))
	})

	if cfg.Metrics.Enabled && d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), d.RateLimits, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(middleware.AuthRateLimit(middleware.RegisterPolicy(cfg.AuthRateLimit), d.RateLimits, logg), idempotency).Post("/register", controllers.AuthRegister(d.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
			r.With(authenticate).Post("/logout", controllers.AuthLogout(d.Auth, logg))
		})

		r.Get("/roles", controllers.RoleCatalog())

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(idempotency)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(d.Profiles, logg))
				r.Patch("/", controllers.UpdateProfile(d.Profiles, logg))
				r.Delete("/", controllers.DeleteAccount(d.Profiles, logg))
				r.Get("/deletion-check", controllers.CheckDeleteAccount(d.Profiles, logg))
			})

			r.Route("/ledgers", func(r chi.Router) {
				r.Get("/", controllers.ListLedgers(d.Ledgers, logg))
				r.Post("/", controllers.CreateLedger(d.Ledgers, logg))

				r.Route("/{ledgerID}", func(r chi.Router) {
					r.Get("/", controllers.GetLedger(d.Ledgers, logg))
					r.Patch("/", controllers.UpdateLedger(d.Ledgers, logg))
					r.Delete("/", controllers.DeleteLedger(d.Ledgers, logg))
					r.Get("/permissions", controllers.LedgerPermissions(d.Ledgers, logg))
					r.Post("/leave", controllers.LeaveLedger(d.Ledgers, logg))

					r.Post("/members", controllers.InviteMember(d.Ledgers, logg))
					r.Patch("/members/{userID}", controllers.UpdateMemberRole(d.Ledgers, logg))
					r.Delete("/members/{userID}", controllers.RemoveMember(d.Ledgers, logg))

					r.Get("/categories", controllers.ListCategories(d.Ledgers, logg))
					r.Post("/categories", controllers.CreateCategory(d.Ledgers, logg))
					r.Patch("/categories/{categoryID}", controllers.UpdateCategory(d.Ledgers, logg))
					r.Delete("/categories/{categoryID}", controllers.DeleteCategory(d.Ledgers, logg))

					r.Get("/transactions", controllers.ListTransactions(d.Transactions, logg))
					r.Post("/transactions", controllers.CreateTransaction(d.Transactions, logg))

					r.Get("/summary/monthly", controllers.MonthlySummary(d.Transactions, logg))
					r.Get("/summary/calendar", controllers.CalendarSummary(d.Transactions, logg))
					r.Get("/summary/categories", controllers.CategorySummary(d.Transactions, logg))
				})
			})

			r.Route("/transactions/{transactionID}", func(r chi.Router) {
				r.Get("/", controllers.GetTransaction(d.Transactions, logg))
				r.Patch("/", controllers.UpdateTransaction(d.Transactions, logg))
				r.Delete("/", controllers.DeleteTransaction(d.Transactions, logg))
			})
		})
	})

	return r
}
