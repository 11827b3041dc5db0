package products

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductAPI/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	APIKey string

	MetricsEnabled bool
	MetricsToken   string

	// WriteLimit caps POST/PUT/DELETE requests per client IP within
	// WriteWindowSeconds. Zero disables the limiter.
	WriteLimit         int
	WriteWindowSeconds int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	setupProductRoutes(r, s, deps)
	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log, msgInternalError))
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

func setupProductRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	r.Route("/api/products", func(pr chi.Router) {
		// The body is parsed before the key check, so a malformed JSON
		// body fails with 500 even when the key is wrong.
		pr.Use(ParseBody)
		pr.Use(APIKeyAuth(deps.APIKey))

		pr.Get("/", s.list)
		pr.Get("/search", s.search)
		pr.Get("/stats", s.stats)
		pr.Get("/{id}", s.get)

		write := pr
		if deps.WriteLimit > 0 {
			limiter := kit.NewIPRateLimiter(deps.WriteLimit, deps.WriteWindowSeconds)
			write = pr.With(limiter.Middleware)
		}

		write.With(RequireProductFields).Post("/", s.create)
		write.With(RequireProductFields).Put("/{id}", s.replace)
		write.Delete("/{id}", s.remove)
	})
}
