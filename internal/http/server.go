package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"expensetracker/internal/app"
	"expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
)

// Options tunes the HTTP surface. The zero value is usable.
type Options struct {
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins []string
	// AuthRequestsPerMinute limits login and registration attempts per client.
	AuthRequestsPerMinute int
	// TrustedProxies are CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type Server struct {
	http.Server
	app          *app.App
	logger       *log.Logger
	authLimiter  *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer builds the router for a. The caller runs ListenAndServe and
// Shutdown.
func NewServer(addr string, a *app.App, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	detector := security.NewDetector(opts.TrustedProxies...)

	s := &Server{
		app:      a,
		logger:   logger.WithComponent(log.ComponentHTTP),
		detector: detector,
		tracer:   trace.NewMiddleware(logger, detector.ClientIP),
		authLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.AuthRequestsPerMinute,
		}),
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(log.Middleware(s.logger))
	r.Use(s.tracer.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(s.detector.Middleware(s.logger))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "HX-Request", "HX-Current-URL", "HX-Target", trace.RequestIDHeader},
			ExposedHeaders: []string{"HX-Trigger", "Content-Disposition", trace.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(s.app.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady(s.app))

	limitAuth := s.authLimiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).
			WarnContext(r.Context(), "Auth rate limit exceeded", log.FieldPath, r.URL.Path)
		TooManyRequestsError("too many attempts, try again later").Write(w)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limitAuth).Post("/register", handleRegister)
			r.With(limitAuth).Post("/login", handleLogin)
			r.Post("/logout", handleLogout)
			r.Get("/session", handleSession)
			r.Delete("/error", handleClearAuthError)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/state", handleState)
			r.Delete("/state/error", handleClearLoadError)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", handleListExpenses)
				r.Post("/", handleCreateExpense)
				r.Get("/{id}", handleGetExpense)
				r.Put("/{id}", handleUpdateExpense)
				r.Delete("/{id}", handleDeleteExpense)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", handleListBudgets)
				r.Post("/", handleSetBudget)
				r.Get("/{category}", handleGetBudget)
				r.Put("/{category}", handleUpdateBudget)
				r.Delete("/{category}", handleDeleteBudget)
			})

			r.Get("/date-range", handleGetDateRange)
			r.Put("/date-range", handleSetDateRange)
			r.Get("/overview", handleOverview)

			r.Get("/export/csv", handleExport(csvExport))
			r.Get("/export/pdf", handleExport(pdfExport))
		})
	})

	return r
}

// Shutdown stops the limiter's cleanup goroutine once, then drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.authLimiter.Stop()
		s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	})
	return s.Server.Shutdown(ctx)
}
