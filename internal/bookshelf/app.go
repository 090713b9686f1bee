// Package bookshelf wires the catalog, user directory and review components
// into a single HTTP handler.
package bookshelf

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Bookshelf/internal/auth"
	"Bookshelf/internal/catalog"
	"Bookshelf/internal/review"
	"Bookshelf/internal/users"
	"Bookshelf/pkg/kit"
)

const (
	readyTimeout = 1 * time.Second
	limitWindow  = time.Minute
)

type Deps struct {
	Books     catalog.Store
	Users     users.Directory
	JWTSecret string
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	RegisterRatePerMin int
	CORSOrigins        []string
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	log := httpDeps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps, log)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps.Books, log))

	manager := review.NewManager(deps.Books, deps.Users, log)
	if httpDeps.Registry != nil {
		manager.WithMetrics(httpDeps.Registry)
	}

	cs := &catalog.Server{Store: deps.Books, Log: log}
	us := &users.Server{Directory: deps.Users, Log: log}
	if httpDeps.RegisterRatePerMin > 0 {
		us.RegisterLimit = kit.NewIPRateLimiter(httpDeps.RegisterRatePerMin, limitWindow).Middleware
	}
	rs := &review.Server{
		Books:    deps.Books,
		Manager:  manager,
		Verifier: auth.NewVerifier(deps.JWTSecret),
		Log:      log,
	}

	cs.Register(r)
	us.Register(r)
	rs.Register(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps, log *zap.Logger) {
	r.Use(chimw.RequestID)
	r.Use(kit.EchoRequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(log))
	r.Use(kit.CORS(deps.CORSOrigins))
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

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(books catalog.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := books.Ping(ctx); err != nil {
			log.Warn("readyz failed", zap.Error(err))
			kit.WriteMessage(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
