package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httptransport "github.com/tcnexs/backend/internal/api/http"
	"github.com/tcnexs/backend/internal/api/http/handlers"
	"github.com/tcnexs/backend/internal/auth"
	"github.com/tcnexs/backend/internal/config"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/events"
	"github.com/tcnexs/backend/internal/observability"
	"github.com/tcnexs/backend/internal/persistence"
	"github.com/tcnexs/backend/internal/policy"
	"github.com/tcnexs/backend/internal/ratelimit"
	"github.com/tcnexs/backend/internal/repository"
	"github.com/tcnexs/backend/internal/service"
	"github.com/tcnexs/backend/internal/storage"
	"github.com/tcnexs/backend/internal/worker"
)

const relayBufferSize = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	secret, fallback := cfg.Auth.SigningSecret()
	if fallback {
		logger.Warn("JWT_SECRET not set, using development signing secret")
	}
	visibility, err := policy.ParseListingVisibility(cfg.Access.ProjectListingVisibility)
	if err != nil {
		logger.Fatal("invalid project listing visibility", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	pool := pg.PoolHandle()
	companyRepo := repository.NewCompanyRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)

	files, err := storage.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	var relay *worker.EventRelay
	var forwarder service.EventForwarder
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			logger.Fatal("failed to connect amqp", zap.Error(err))
		}
		defer amqpPublisher.Close() //nolint:errcheck
		relay = worker.NewEventRelay(amqpPublisher.Publish, relayBufferSize, logger)
		forwarder = relay
	}
	worker.StartNotificationWorker(ctx, service.NewNotificationService(dispatcher, forwarder, logger), relay)

	tokens := auth.NewTokenManager(secret, cfg.Auth.TokenTTL)
	gate := auth.NewGate(tokens, auth.NewIdentityResolver(companyRepo), logger)

	authService := service.NewAuthService(service.AuthDependencies{
		CompanyRepo: companyRepo,
		Tokens:      tokens,
		BcryptCost:  cfg.Auth.BcryptCost,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	companyService := service.NewCompanyService(service.CompanyDependencies{
		CompanyRepo: companyRepo,
		Files:       files,
		Decisions:   metrics,
		Logger:      logger,
	})
	announcementService := service.NewAnnouncementService(service.AnnouncementDependencies{
		AnnouncementRepo: announcementRepo,
		Dispatcher:       dispatcher,
		Decisions:        metrics,
		Logger:           logger,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: projectRepo,
		CompanyRepo: companyRepo,
		Visibility:  visibility,
		Dispatcher:  dispatcher,
		Decisions:   metrics,
		Logger:      logger,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
		BodyLimit:    int(cfg.Upload.MaxFileSize) + 1<<20,
	})
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Max > 0 {
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:     logger,
		Metrics:    metrics,
		Timeout:    time.Duration(cfg.App.RequestTimeoutSeconds) * time.Second,
		CORSOrigin: cfg.App.CORSOrigin,
		Limiter:    limiter,
	})

	validate := handlers.NewValidator()
	writeRoles := make([]domain.Role, 0, len(cfg.Auth.ProjectWriteRoles))
	for _, r := range cfg.Auth.ProjectWriteRoles {
		writeRoles = append(writeRoles, domain.Role(r))
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:              handlers.NewAuthHandler(authService, validate),
		Companies:         handlers.NewCompaniesHandler(companyService, files, validate),
		Announcements:     handlers.NewAnnouncementsHandler(announcementService, validate),
		Projects:          handlers.NewProjectsHandler(projectService, validate),
		Gate:              gate,
		ProjectWriteRoles: writeRoles,
		Metrics:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		UploadDir:         files.Root(),
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	if relay != nil {
		<-relay.Done()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
