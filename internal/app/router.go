package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/backup"
	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/ledger"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
	"github.com/freightdesk/freightdesk/internal/users"
	"github.com/freightdesk/freightdesk/jobs"
	"github.com/freightdesk/freightdesk/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Metrics        *observability.Metrics

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	CustomersHandler     *customers.Handler
	LorryReceiptsHandler *lorryreceipts.Handler
	InvoicesHandler      *invoices.Handler
	PaymentsHandler      *payments.Handler
	TruckHiringHandler   *truckhiring.Handler
	NumberingHandler     *numbering.Handler
	LedgerHandler        *ledger.Handler
	CompanyHandler       *company.Handler
	BackupHandler        *backup.Handler
	ReportHandler        *report.Handler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi.Router with FreightDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(api chi.Router) {
		api.Use(RequireSession)

		api.Route("/customers", params.CustomersHandler.MountRoutes)
		api.Route("/lorry-receipts", params.LorryReceiptsHandler.MountRoutes)
		api.Route("/invoices", params.InvoicesHandler.MountRoutes)
		api.Route("/payments", params.PaymentsHandler.MountRoutes)
		api.Route("/truck-hiring-notes", params.TruckHiringHandler.MountRoutes)
		api.Route("/numbering", params.NumberingHandler.MountRoutes)
		api.Route("/ledgers", params.LedgerHandler.MountRoutes)
		api.Route("/company", params.CompanyHandler.MountRoutes)
		api.Route("/backup", params.BackupHandler.MountRoutes)
		api.Route("/users", params.UsersHandler.MountRoutes)
		if params.ReportHandler != nil {
			api.Route("/reports", params.ReportHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			api.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
