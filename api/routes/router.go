package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tgcretail/pos-backend/api/controllers"
	"github.com/tgcretail/pos-backend/api/middleware"
	auditsvc "github.com/tgcretail/pos-backend/internal/audit"
	cartsvc "github.com/tgcretail/pos-backend/internal/cart"
	catalogsvc "github.com/tgcretail/pos-backend/internal/catalog"
	ledgersvc "github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/internal/lifecycle"
	reportsvc "github.com/tgcretail/pos-backend/internal/reports"
	staffsvc "github.com/tgcretail/pos-backend/internal/staff"
	"github.com/tgcretail/pos-backend/pkg/config"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     controllers.Pinger
	Registry  *prometheus.Registry
	Catalog   catalogsvc.Service
	Cart      cartsvc.Service
	Ledger    ledgersvc.Service
	Audit     auditsvc.Service
	Lifecycle lifecycle.Engine
	Reports   reportsvc.Service
	Staff     staffsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StaffContext(logg, deps.Staff))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.ListCatalog(deps.Catalog, logg))
			r.Post("/", controllers.UpsertStock(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetCatalogItem(deps.Catalog, logg))
			r.Patch("/{id}", controllers.UpdateStock(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteStock(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Post("/lines", controllers.AddCartLine(deps.Cart, logg))
			r.Patch("/lines", controllers.SetCartQuantity(deps.Cart, logg))
			r.Delete("/lines", controllers.RemoveCartLine(deps.Cart, logg))
			r.Put("/customer", controllers.SetCartCustomer(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Lifecycle, logg))

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", controllers.ListReceipts(deps.Ledger, logg))
			r.Get("/{transactionID}", controllers.GetReceipt(deps.Ledger, logg))
			r.Post("/{transactionID}/pay", controllers.PayReceipt(deps.Lifecycle, logg))
			r.Post("/{transactionID}/cancel", controllers.CancelReceipt(deps.Lifecycle, logg))
			r.Post("/{transactionID}/refund", controllers.RefundReceipt(deps.Lifecycle, logg))
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", controllers.RecentAuditEntries(deps.Audit, logg))
			r.Get("/latest", controllers.LatestAuditStates(deps.Audit, logg))
			r.Get("/{transactionID}", controllers.AuditTimeline(deps.Audit, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/daily-sales", controllers.DailySalesReport(deps.Reports, logg))
			r.Get("/low-stock", controllers.LowStockReport(deps.Reports, logg))
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", controllers.ListStaff(deps.Staff, logg))
			r.Post("/", controllers.CreateStaff(deps.Staff, logg))
		})
	})

	return r
}
