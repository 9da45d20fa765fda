package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/redhat-appstudio/ops-flow/apis/common"
	"github.com/redhat-appstudio/ops-flow/apis/credentials"
	"github.com/redhat-appstudio/ops-flow/apis/flows"
	"github.com/redhat-appstudio/ops-flow/apis/health"
	apiintegrations "github.com/redhat-appstudio/ops-flow/apis/integrations"
	"github.com/redhat-appstudio/ops-flow/apis/metrics"
	"github.com/redhat-appstudio/ops-flow/apis/settings"
	"github.com/redhat-appstudio/ops-flow/internal/config"
	"github.com/redhat-appstudio/ops-flow/internal/handlers"
	"github.com/redhat-appstudio/ops-flow/internal/version"
	"github.com/redhat-appstudio/ops-flow/pkg/configstore"
	"github.com/redhat-appstudio/ops-flow/pkg/integrations/httpclient"
	"github.com/redhat-appstudio/ops-flow/pkg/logger"
	"github.com/redhat-appstudio/ops-flow/pkg/monitors/connectivity"
	"github.com/redhat-appstudio/ops-flow/pkg/registry"
	"github.com/redhat-appstudio/ops-flow/pkg/storage"
)

// ShutdownTimeout bounds how long in-flight requests may run after a stop signal.
const ShutdownTimeout = 10 * time.Second

// Server owns the Fiber application and every component it serves.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	storage  *storage.Manager
	registry *registry.Registry
	monitor  *connectivity.Monitor
}

// New wires the stores, the adapter registry, the connectivity monitor and
// the HTTP routes described by cfg. The logger must be initialized first.
func New(cfg *config.Config) (*Server, error) {
	storageManager, err := storage.NewManager(storage.StorageConfig{
		Backend:        cfg.Secrets.Backend,
		KeyringService: cfg.Secrets.KeyringService,
		Redis: storage.RedisConfig{
			Enabled:   cfg.Secrets.Redis.Enabled,
			Address:   cfg.Secrets.Redis.Address,
			Password:  cfg.Secrets.Redis.Password,
			Database:  cfg.Secrets.Redis.Database,
			KeyPrefix: cfg.Secrets.Redis.KeyPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	store := configstore.New(cfg.Data.ConfigDir)
	flowStore := configstore.NewFlowStore(cfg.Data.FlowsDir)
	credentialStore := storage.NewCredentialStore(storageManager.Secrets)

	client := httpclient.New(
		httpclient.WithTimeouts(cfg.HTTP.ConnectTimeout, cfg.HTTP.RequestTimeout),
		httpclient.WithPolicy(&httpclient.RetryPolicy{
			MaxRetries:        cfg.HTTP.MaxRetries,
			InitialBackoff:    cfg.HTTP.InitialBackoff,
			BackoffMultiplier: httpclient.DefaultBackoffMultiplier,
		}),
		httpclient.WithLogger(logger.Named("http")),
	)
	adapters := registry.New(
		registry.NewFactory(client, logger.Named("factory")),
		credentialStore,
		logger.Named("registry"),
	)

	var monitor *connectivity.Monitor
	var status apiintegrations.StatusProvider
	if cfg.Monitor.Enabled {
		opts := []connectivity.Option{
			connectivity.WithSchedule(cfg.Monitor.Schedule),
			connectivity.WithLogger(logger.Named("connectivity")),
		}
		if storageManager.Redis != nil {
			opts = append(opts, connectivity.WithCache(storageManager.Redis))
		}
		monitor = connectivity.NewMonitor(store, adapters, opts...)
		status = monitor
	}

	// Create Fiber app with faster JSON encoder
	app := fiber.New(fiber.Config{
		AppName:      "ops-flow " + version.GetVersion(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		UnescapePath: true,
		ErrorHandler: common.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	adapterGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "opsflow_cached_adapters",
		Help: "Number of adapters held by the registry cache",
	}, func() float64 { return float64(adapters.Len()) })
	collectors := []prometheus.Collector{adapterGauge}
	if monitor != nil {
		collectors = append(collectors, connectivity.NewCollector(monitor))
	}
	metricsHandler, err := metrics.NewHandler(collectors...)
	if err != nil {
		_ = storageManager.Close()
		return nil, err
	}

	var checks []health.Check
	if storageManager.Redis != nil {
		checks = append(checks, health.Check{Name: "redis", Run: storageManager.Redis.Ping})
	}

	handlers.SetupRoutes(app, handlers.Handlers{
		Health:       health.NewHandler(checks...),
		Integrations: apiintegrations.NewHandler(store, adapters, status, logger.Named("api.integrations")),
		Settings:     settings.NewHandler(store, adapters, logger.Named("api.settings")),
		Credentials:  credentials.NewHandler(credentialStore, adapters, logger.Named("api.credentials")),
		Flows:        flows.NewHandler(flowStore, logger.Named("api.flows")),
		Metrics:      metricsHandler,
	})

	logger.Info("Server configured",
		zap.String("config_dir", cfg.Data.ConfigDir),
		zap.String("flows_dir", cfg.Data.FlowsDir),
		zap.String("secrets_backend", cfg.Secrets.Backend),
		zap.Bool("monitor_enabled", cfg.Monitor.Enabled))

	return &Server{
		app:      app,
		cfg:      cfg,
		storage:  storageManager,
		registry: adapters,
		monitor:  monitor,
	}, nil
}

// App returns the Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the connectivity monitor and serves HTTP until SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves HTTP until ctx is done or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.monitor.Start(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(":" + s.cfg.Port)
	}()

	select {
	case err := <-errCh:
		s.close()
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
		err := s.app.ShutdownWithTimeout(ShutdownTimeout)
		s.close()
		return err
	}
}

func (s *Server) close() {
	s.monitor.Stop()
	if err := s.storage.Close(); err != nil {
		logger.Warnf("Failed to close storage: %v", err)
	}
	s.registry.ClearCache()
}
