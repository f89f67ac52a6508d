package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	reportapp "github.com/gestor/backend/internal/application/report"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/gestor/backend/internal/infrastructure/telemetry"
	"github.com/gestor/backend/internal/interfaces/http/handler"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gestor/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			Gestor Reports API
//	@version		1.0
//	@description	Multi-company financial reports: revenue analysis, DRE and consolidated overviews
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops when telemetry.enabled is false
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log, err = logger.New(logCfg, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Gestor reports backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
		// local demo databases are created on the fly; postgres goes through cmd/migrate
		if err := db.DB.AutoMigrate(models.All()...); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	tracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env == "development",
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := tracingPlugin.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	reportMetrics, err := telemetry.NewReportMetrics(meterProvider.Meter("gestor/reports"))
	if err != nil {
		log.Fatal("Failed to create report metrics", zap.Error(err))
	}

	// validated by config.Load
	location, _ := cfg.Report.Location()

	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)

	reportService := reportapp.NewReportService(ledgerRepo, tenantRepo,
		reportapp.WithLocation(location),
		reportapp.WithMaxParallel(cfg.Report.MaxParallelQueries),
		reportapp.WithMaxMonths(cfg.Report.MaxMonths),
		reportapp.WithRecorder(reportMetrics),
		reportapp.WithLogger(log),
	)

	var (
		redisClient *redis.Client
		blacklist   auth.TokenBlacklist
	)
	if cfg.Redis.Host != "" {
		redisClient, err = auth.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// revocation checks are skipped rather than refusing to serve reports
			log.Warn("Redis unavailable, token revocation checks disabled",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err))
		} else {
			blacklist = auth.NewRedisTokenBlacklist(redisClient)
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Error closing redis client", zap.Error(err))
				}
			}()
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(cfg.Telemetry.ServiceName, cfg.HTTP, log)
	router.Setup(engine, router.Handlers{
		Health: handler.NewHealthHandler(db, redisClient),
		Report: handler.NewReportHandler(reportService, handler.ReportHandlerConfig{
			DefaultMonths: cfg.Report.DefaultMonths,
			MaxMonths:     cfg.Report.MaxMonths,
		}),
	}, middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		Verifier:       auth.NewJWTVerifier(cfg.JWT),
		TokenBlacklist: blacklist,
		Logger:         log,
	}))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// telemetry is flushed after the server drains
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
