package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// requestTimeout bounds every request end to end.
const requestTimeout = 30 * time.Second

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Health       *HealthHandler
	Users        *UserHandler
	Accounts     *AccountHandler
	Transactions *TransactionHandler
	Categories   *CategoryHandler
	Budgets      *BudgetHandler
	Goals        *GoalHandler
	Currencies   *CurrencyHandler
}

// NewRouter wires the full HTTP surface. Health endpoints stay outside the
// auth boundary; everything else requires a verified bearer token.
func NewRouter(h Handlers, authenticate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", h.Health.Live)
	r.Get("/health/db", h.Health.Database)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.Users.Me)
			r.Delete("/me", h.Users.DeleteMe)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.Accounts.Create)
			r.Get("/", h.Accounts.List)
			r.Get("/{accountID}", h.Accounts.Get)
			r.Put("/{accountID}", h.Accounts.Update)
			r.Delete("/{accountID}", h.Accounts.Delete)
			r.Post("/{accountID}/reconcile", h.Accounts.Reconcile)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", h.Transactions.Create)
			r.Get("/", h.Transactions.List)
			r.Post("/transfer", h.Transactions.Transfer)
			r.Get("/{transactionID}", h.Transactions.Get)
			r.Delete("/{transactionID}", h.Transactions.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", h.Categories.Create)
			r.Get("/", h.Categories.List)
			r.Put("/{categoryID}", h.Categories.Update)
			r.Delete("/{categoryID}", h.Categories.Delete)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", h.Budgets.Create)
			r.Get("/", h.Budgets.List)
			r.Get("/{budgetID}", h.Budgets.Get)
			r.Put("/{budgetID}", h.Budgets.Update)
			r.Delete("/{budgetID}", h.Budgets.Delete)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", h.Goals.Create)
			r.Get("/", h.Goals.List)
			r.Get("/{goalID}", h.Goals.Get)
			r.Put("/{goalID}", h.Goals.Update)
			r.Post("/{goalID}/progress", h.Goals.Progress)
			r.Delete("/{goalID}", h.Goals.Delete)
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", h.Currencies.List)
			r.Get("/{code}", h.Currencies.GetByCode)
		})

		r.Route("/exchange-rates", func(r chi.Router) {
			r.Put("/", h.Currencies.RecordRate)
			r.Get("/convert", h.Currencies.Convert)
			r.Get("/history", h.Currencies.History)
		})
	})

	return otelhttp.NewHandler(r, "fintrack.api")
}
