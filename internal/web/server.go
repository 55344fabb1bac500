// Package web provides the HTTP server and handlers for the freight dashboard.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/JonMunkholm/freightdash/internal/config"
	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/JonMunkholm/freightdash/internal/metrics"
	"github.com/JonMunkholm/freightdash/internal/notify"
	"github.com/JonMunkholm/freightdash/internal/seed"
	"github.com/JonMunkholm/freightdash/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// errNotLoaded stands in for the load error until the first load succeeds.
var errNotLoaded = errors.New("fetch failed: startup data has not been loaded")

// Deps are the collaborators of a Server besides the core service.
type Deps struct {
	Source  seed.Source
	Notices *notify.Registry
	Metrics *metrics.Registry // nil disables /metrics
}

// Server is the HTTP server of the dashboard.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	source   seed.Source
	notices  *notify.Registry
	metrics  *metrics.Registry
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter

	loadMu  sync.RWMutex
	loadErr error
}

// NewServer creates a Server. No data is served until Reload succeeds.
func NewServer(service *core.Service, cfg *config.Config, deps Deps) *Server {
	notices := deps.Notices
	if notices == nil {
		notices = notify.NewRegistry(notify.DefaultDurations())
	}

	s := &Server{
		service: service,
		cfg:     cfg,
		source:  deps.Source,
		notices: notices,
		metrics: deps.Metrics,
		router:  chi.NewRouter(),
		loadErr: errNotLoaded,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Metadata)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(s.newLimiter(s.cfg.Rate.RequestsPerMinute)))
	}
}

func (s *Server) newLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}

	r.Post("/retry", s.handleRetry)
	r.Post("/notifications/dismiss", s.handleDismissAll)
	r.Post("/notifications/{id}/dismiss", s.handleDismiss)
	r.Get("/api/notifications", s.handleListNotifications)

	// Everything below needs a successful startup load.
	r.Group(func(r chi.Router) {
		r.Use(s.requireData)

		r.Get("/", s.handleLoadsPage)
		r.Get("/drivers", s.handleDriversPage)
		r.Get("/trucks", s.handleTrucksPage)
		r.Get("/activity", s.handleActivityPage)
		r.Get("/activity/export", s.handleActivityExport)

		r.Post("/loads", s.handleCreateLoad)
		r.Post("/loads/{id}", s.handleUpdateLoad)
		r.Post("/loads/{id}/delete", s.handleDeleteLoad)
		r.Get("/loads/export", s.handleExportLoads)

		importRoute := r.With()
		if s.cfg.Rate.Enabled && s.cfg.Rate.ImportLimit > 0 {
			importRoute = r.With(s.rateLimit(s.newLimiter(s.cfg.Rate.ImportLimit)))
		}
		importRoute.Post("/loads/import", s.handleImportLoads)

		r.Post("/drivers", s.handleCreateDriver)
		r.Post("/drivers/{id}", s.handleUpdateDriver)
		r.Post("/drivers/{id}/delete", s.handleDeleteDriver)
		r.Post("/drivers/{id}/status", s.handleDriverStatus)

		r.Post("/trucks", s.handleCreateTruck)
		r.Post("/trucks/{id}", s.handleUpdateTruck)
		r.Post("/trucks/{id}/delete", s.handleDeleteTruck)
		r.Post("/trucks/{id}/status", s.handleTruckStatus)

		r.Route("/api", func(r chi.Router) {
			r.Get("/loads", s.handleAPILoads)
			r.Get("/loads/{id}", s.handleAPILoad)
			r.Get("/drivers", s.handleAPIDrivers)
			r.Get("/trucks", s.handleAPITrucks)
			r.Get("/stats", s.handleAPIStats)
			r.Get("/filters", s.handleAPIFilters)
			r.Get("/activity", s.handleAPIActivity)
		})
	})
}

// Reload fetches the startup data and replaces all three collections.
// On failure the collections are left untouched and every data route
// shows the blocking error page until a later Reload succeeds.
func (s *Server) Reload(ctx context.Context) error {
	if s.source == nil {
		return s.setLoadErr(errors.New("fetch failed: no data source configured"))
	}

	if s.cfg.Data.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Data.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	data, err := seed.LoadAll(ctx, s.source)
	if s.metrics != nil {
		s.metrics.SeedLoaded(time.Since(start), err)
	}
	if err != nil {
		slog.Error("startup data load failed", "error", err)
		return s.setLoadErr(err)
	}

	if err := s.replaceData(data); err != nil {
		slog.Error("startup data rejected", "error", err)
		return s.setLoadErr(err)
	}
	s.refreshRecordGauges()

	s.notices.Success("Loads Loaded Successfully!", notify.Options{
		Description: fmt.Sprintf("%d loads loaded.", len(data.Loads)),
	})
	return s.setLoadErr(nil)
}

func (s *Server) replaceData(data *seed.Data) error {
	if err := s.service.ReplaceLoads(data.Loads); err != nil {
		return err
	}
	if err := s.service.ReplaceDrivers(data.Drivers); err != nil {
		return err
	}
	return s.service.ReplaceTrucks(data.Trucks)
}

func (s *Server) setLoadErr(err error) error {
	s.loadMu.Lock()
	s.loadErr = err
	s.loadMu.Unlock()
	return err
}

// LoadErr returns the error of the last startup load, or nil.
func (s *Server) LoadErr() error {
	s.loadMu.RLock()
	defer s.loadMu.RUnlock()
	return s.loadErr
}

// refreshRecordGauges publishes the current collection sizes.
func (s *Server) refreshRecordGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetRecords(core.EntityLoad, len(s.service.Loads(core.FilterCriteria{})))
	s.metrics.SetRecords(core.EntityDriver, len(s.service.Drivers()))
	s.metrics.SetRecords(core.EntityTruck, len(s.service.Trucks()))
}

// Start begins listening for HTTP requests. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and its background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				// Inline styles and the toast timer script are served with the page.
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}
			next.ServeHTTP(w, r)
		})
	}
}
