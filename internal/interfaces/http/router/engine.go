package router

import (
	"time"

	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/interfaces/http/handler"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// NewEngine builds the gin engine with the global middleware stack:
// tracing, request id, request logging, panic recovery, security headers,
// CORS and the request deadline.
func NewEngine(serviceName string, cfg config.HTTPConfig, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORSAllowHeaders
	}
	corsConfig.MaxAge = 12 * time.Hour

	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Timeout(cfg.RequestTimeout))

	return engine
}

// Handlers bundles the HTTP handlers mounted by Setup
type Handlers struct {
	Health *handler.HealthHandler
	Report *handler.ReportHandler
}

// Setup mounts the probes at the root and the report API under /api/v1
// behind auth.
func Setup(engine *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	reports := NewDomainGroup("/reports")
	reports.GET("/revenue-analysis", h.Report.GetRevenueAnalysis)
	reports.GET("/analise-receita", h.Report.GetRevenueAnalysis)
	reports.GET("/dre", h.Report.GetDRE)
	reports.GET("/financial-summary", h.Report.GetFinancialSummary)
	reports.GET("/consolidated", h.Report.GetConsolidatedOverview)

	NewRouter(engine, WithAPIVersion("v1")).
		Use(auth).
		Register(reports).
		Setup()
}
