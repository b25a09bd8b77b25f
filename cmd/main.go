package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/config"
	"wmsconsole/internal/handlers"
	"wmsconsole/internal/jobs/background"
	"wmsconsole/internal/models"
	"wmsconsole/internal/render"
	"wmsconsole/internal/server"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"
	"wmsconsole/internal/wmsapi"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := cfg.NewLogger()

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("console stopped")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	// Capability matrix
	var overrides map[string][]string
	if cfg.PolicyFile != "" {
		policy, err := config.LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return err
		}
		overrides = policy.Capabilities
	}
	rbacService, err := services.NewRBACService(overrides)
	if err != nil {
		return err
	}

	// Credential store and login throttling
	var (
		store   caching.CredentialStore
		limiter caching.RateLimiter
		evicter background.IdleEvicter
		pruner  background.Pruner
	)
	if cfg.RedisAddr != "" {
		redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()
		store = caching.NewRedisStore(redisClient, cfg.SessionIdleTTL)
		limiter = caching.NewRedisRateLimiter(redisClient)
		logger.WithField("addr", cfg.RedisAddr).Info("using redis credential store")
	} else {
		memoryStore := caching.NewMemoryStore(cfg.SessionIdleTTL)
		memoryLimiter := caching.NewMemoryRateLimiter()
		store, limiter = memoryStore, memoryLimiter
		evicter, pruner = memoryStore, memoryLimiter
		logger.Info("using in-memory credential store")
	}

	scheduler, err := background.NewJobScheduler(cfg.EvictionInterval, evicter, pruner, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Import archive
	var archiver services.ImportArchiver
	if cfg.MinioEndpoint != "" {
		archiver, err = services.NewMinioArchiver(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.ImportBucket)
		if err != nil {
			return fmt.Errorf("failed to initialize MinIO: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := archiver.EnsureBucketExists(ctx); err != nil {
			logger.WithError(err).Warn("import bucket unavailable, uploads will not be archived until it is")
		}
		cancel()
	}

	// WMS API client
	api := wmsapi.NewClient(cfg.APIBaseURL,
		wmsapi.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		wmsapi.WithLogger(logger),
	)

	// Services
	authService := services.NewAuthService(api.Auth, limiter, cfg.LoginRateLimit, cfg.LoginRateWindow, logger)
	inventoryService := services.NewInventoryService(api.Products, api.AuditLog, archiver, logger)
	inboundService := services.NewLogisticsService[models.InboundRecord]("inbound", api.Inbounds, api.Products, archiver, logger)
	outboundService := services.NewLogisticsService[models.OutboundRecord]("outbound", api.Outbounds, api.Products, archiver, logger)
	cycleCountService := services.NewCycleCountService(api.CycleCounts, api.Products, logger)
	dashboardService := services.NewDashboardService(api.Dashboard, logger)
	forecastService := services.NewForecastService(api.Forecast, api.Products, logger)

	// Sessions and views
	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionIdleTTL, session.WithSecureCookie(cfg.SecureCookie))
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(rbacService)
	if err != nil {
		return err
	}

	e := server.NewRouter(server.Deps{
		Sessions: sessions,
		Store:    store,
		RBAC:     rbacService,
		Renderer: renderer,
		Logger:   logger,
		Version:  version,
	}, server.Handlers{
		Auth:       handlers.NewAuthHandlers(authService, store, sessions, logger),
		Dashboard:  handlers.NewDashboardHandlers(dashboardService, sessions, logger),
		Inventory:  handlers.NewInventoryHandlers(inventoryService, sessions, logger),
		Inbound:    handlers.NewInboundHandlers(inboundService, sessions, logger),
		Outbound:   handlers.NewOutboundHandlers(outboundService, sessions, logger),
		CycleCount: handlers.NewCycleCountHandlers(cycleCountService, sessions, logger),
		Forecast:   handlers.NewForecastHandlers(forecastService, sessions, logger),
		Health:     handlers.NewHealthHandlers(store, archiver, version),
	})

	// Start server
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "api": cfg.APIBaseURL, "version": version}).Info("WMS console starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
