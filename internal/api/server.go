package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/order"
	"storefront/internal/stream"
	"storefront/pkg/kit"
)

const (
	loginLimitPerMin = 5
	loginWindow      = 60 * time.Second
)

type Server struct {
	Catalog  *catalog.Store
	Orders   *order.Ledger
	Sessions *auth.Sessions
	Broker   *stream.Broker
	Log      *zap.Logger
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Mount("/", s.Routes())
	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, loginWindow)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/stream", s.streamEvents)

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/categories", s.listCategories)

		r.Post("/purchase", s.purchase)
		r.Get("/orders", s.ordersByEmail)

		r.With(loginLimiter.Middleware).Post("/admin/login", s.adminLogin)

		r.Group(func(ar chi.Router) {
			ar.Use(RequireAdmin(s.Sessions))
			ar.Post("/products", s.createProduct)
			ar.Put("/products/{id}", s.updateProduct)
			ar.Delete("/products/{id}", s.deleteProduct)
			ar.Get("/admin/orders", s.adminOrders)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
