package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ebtehal15/turkey-items-v2/api/controllers"
	"github.com/Ebtehal15/turkey-items-v2/api/middleware"
	"github.com/Ebtehal15/turkey-items-v2/internal/cart"
	"github.com/Ebtehal15/turkey-items-v2/internal/catalog"
	"github.com/Ebtehal15/turkey-items-v2/internal/orders"
	"github.com/Ebtehal15/turkey-items-v2/internal/pricehistory"
	"github.com/Ebtehal15/turkey-items-v2/internal/settings"
	"github.com/Ebtehal15/turkey-items-v2/internal/syncengine"
	"github.com/Ebtehal15/turkey-items-v2/pkg/config"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	redisclient "github.com/Ebtehal15/turkey-items-v2/pkg/redis"
	"github.com/Ebtehal15/turkey-items-v2/pkg/session"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             *db.Client
	Redis          *redisclient.Client
	SessionManager *session.Manager
	Catalog        catalog.Service
	History        *pricehistory.Repository
	Cart           cart.Service
	Orders         orders.Service
	Settings       settings.Service
	SyncEngine     *syncengine.Engine
	SyncSource     *syncengine.CSVSource
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	cartGate := middleware.Session(deps.SessionManager, session.KindCart, logg)
	adminGate := middleware.Session(deps.SessionManager, session.KindAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", controllers.StartSession(deps.SessionManager, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AdminLogin(deps.SessionManager, cfg.Admin, logg))
			r.With(adminGate).Post("/logout", controllers.AdminLogout(deps.SessionManager, logg))
		})

		// Storefront catalog reads need no session.
		r.Route("/classes", func(r chi.Router) {
			r.Get("/", controllers.ListClasses(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetClass(deps.Catalog, logg))
			r.Get("/special/{specialId}", controllers.GetClassBySpecialID(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminGate)
				r.Post("/", controllers.CreateClass(deps.Catalog, logg))
				r.Patch("/{id}", controllers.UpdateClass(deps.Catalog, logg))
				r.Delete("/{id}", controllers.DeleteClass(deps.Catalog, logg))
				r.Delete("/", controllers.DeleteAllClasses(deps.Catalog, logg))
				r.Get("/generate-special-id", controllers.GenerateSpecialID(deps.Catalog, logg))
				r.Get("/{id}/price-history", controllers.ClassPriceHistory(deps.Catalog, deps.History, logg))
				r.Post("/bulk-replace", controllers.BulkReplace(deps.Catalog, logg))
			})
		})

		r.With(adminGate).Get("/price-changes", controllers.RecentPriceChanges(deps.History, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(cartGate)
			r.Get("/", controllers.ViewCart(deps.Cart, logg))
			r.Post("/add", controllers.AddToCart(deps.Cart, logg))
			r.Post("/quantity", controllers.SetCartQuantity(deps.Cart, logg))
			r.Post("/remove", controllers.RemoveFromCart(deps.Cart, logg))
			r.Post("/clear", controllers.ClearCart(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(cartGate).Post("/", controllers.SubmitOrder(deps.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminGate)
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
				r.Delete("/{orderId}", controllers.DeleteOrder(deps.Orders, logg))
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(adminGate)
			r.Get("/column-visibility", controllers.GetColumnVisibility(deps.Settings, logg))
			r.Put("/column-visibility", controllers.SetColumnVisibility(deps.Settings, logg))
			r.Get("/sheets-sync", controllers.GetSheetsSync(deps.Settings, logg))
			r.Put("/sheets-sync", controllers.SetSheetsSync(deps.Settings, logg))
			r.Get("/{key}", controllers.GetSetting(deps.Settings, logg))
			r.Put("/{key}", controllers.SetSetting(deps.Settings, logg))
		})

		r.With(adminGate).Post("/sync", controllers.RunSync(deps.SyncEngine, deps.SyncSource, deps.Settings, logg))
	})

	return r
}
