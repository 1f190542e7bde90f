// Package http exposes the ledger as a JSON API: the home overview, the
// filtered operations history, the yearly stats and the display settings.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"moneta/internal/log"
	"moneta/internal/store"
)

// Options configures the API server. Zero values fall back to sane
// defaults; Clock exists so tests can pin "today".
type Options struct {
	Addr           string
	Ledger         *store.Ledger
	RateLimitRPS   int
	RateLimitBurst int
	CacheTTL       time.Duration
	Clock          func() time.Time
	Logger         *log.Logger
}

type Server struct {
	http.Server

	ledger  *store.Ledger
	views   *gocache.Cache
	limiter *rate.Limiter
	clock   func() time.Time
	logger  *log.Logger
}

// NewServer wires the routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 20
	}
	if opts.RateLimitBurst < opts.RateLimitRPS {
		opts.RateLimitBurst = opts.RateLimitRPS
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}

	s := &Server{
		ledger:  opts.Ledger,
		views:   gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst),
		clock:   opts.Clock,
		logger:  opts.Logger.WithComponent(log.ComponentHTTP),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.handleHome)
		r.Post("/transactions", s.handleAddTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleRemoveTransaction)
		r.Get("/operations", s.handleOperations)
		r.Get("/stats", s.handleStats)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})

	s.Server = http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
