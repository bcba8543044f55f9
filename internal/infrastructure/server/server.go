package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/sidenote/backend/internal/api/http"
	"github.com/GriffinCanCode/sidenote/backend/internal/api/middleware"
	"github.com/GriffinCanCode/sidenote/backend/internal/api/ws"
	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/sidenote/backend/internal/providers"
	"github.com/GriffinCanCode/sidenote/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/sidenote/backend/internal/service"
	"github.com/GriffinCanCode/sidenote/backend/internal/startup"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	registry   *service.Registry
	watcher    *filesystem.ChangeWatcher
	hub        *events.Hub
	tracer     *tracing.Tracer
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger, version string) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing sidenote core",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("version", version),
		zap.Strings("extensions", cfg.Index.Extensions),
	)

	// Metrics first, every other component records into them
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(promRegistry)

	tracer := tracing.New("sidenote-core", logger.Component("trace"))
	hub := events.NewHub(cfg.Watch.EventBuffer, logger.Component("events"), metrics)

	filter, err := filesystem.NewFilter(cfg.Index.Extensions, cfg.Index.Ignore)
	if err != nil {
		tracer.Close()
		hub.Close()
		metrics.Close()
		return nil, fmt.Errorf("failed to build index filter: %w", err)
	}

	fsLogger := logger.Component("filesystem")
	watcher := filesystem.NewChangeWatcher(fsLogger, metrics)
	fsProvider := filesystem.NewProvider(filesystem.Options{
		Filter:       filter,
		Logger:       fsLogger,
		Metrics:      metrics,
		SkipSymlinks: !cfg.Index.FollowSymlinks,
	}, watcher, hub)

	serviceRegistry := service.NewRegistry()
	registerProviders(serviceRegistry, logger, fsProvider, providers.NewSystem(version, hub))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(serviceRegistry, metrics, version, logger.Component("http"))
	wsHandler := ws.NewHandler(serviceRegistry, hub, tracer, metrics, logger.Component("ws"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Commands
	router.GET("/commands", handlers.ListCommands)
	router.POST("/invoke/:command", handlers.Invoke)

	// Event stream
	router.GET("/events", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", apihttp.MetricsHandler(promRegistry))
	router.GET("/metrics/json", handlers.Stats)

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           gzhttp.GzipHandler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
		registry: serviceRegistry,
		watcher:  watcher,
		hub:      hub,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Notifier returns the event hub used for open-folder and file-changed
func (s *Server) Notifier() events.Notifier {
	return s.hub
}

// Registry returns the command registry
func (s *Server) Registry() *service.Registry {
	return s.registry
}

// Announce emits open-folder for the launch argument, if it resolves
func (s *Server) Announce(ctx context.Context, launchArg string) {
	startup.Announce(ctx, launchArg, s.hub, s.logger.Component("startup"))
}

// Run listens on the configured address and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; closing
	// the hub ends them.
	s.hub.Close()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close stops every watch and releases resources
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.watcher.Close()
	s.logger.Info("Stopped file watches")

	s.hub.Close()
	s.tracer.Close()
	s.metrics.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}

func registerProviders(registry *service.Registry, logger *logging.Logger, list ...service.Provider) {
	for _, p := range list {
		def := p.Definition()
		if err := registry.Register(p); err != nil {
			logger.Warn("Failed to register provider", zap.String("service", def.ID), zap.Error(err))
			continue
		}
		logger.Debug("Registered provider", zap.String("service", def.ID), zap.Int("tools", len(def.Tools)))
	}

	stats := registry.Stats()
	logger.Info("Registered services",
		zap.Any("services", stats["total_services"]),
		zap.Any("tools", stats["total_tools"]),
	)
}
