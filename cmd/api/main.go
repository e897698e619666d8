package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/config"
	"github.com/letiskotransfer/transfer-api/internal/handlers"
	"github.com/letiskotransfer/transfer-api/internal/middleware"
	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/internal/services"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
	"github.com/letiskotransfer/transfer-api/pkg/mail"
	"github.com/letiskotransfer/transfer-api/pkg/metrics"
	"github.com/letiskotransfer/transfer-api/pkg/profiling"
	"github.com/letiskotransfer/transfer-api/pkg/tracing"
)

const (
	healthPath  = "/api/healthcheck"
	metricsPath = "/api/metrics"
)

// registerAPIRoutes registers the public API routes
func registerAPIRoutes(
	group *gin.RouterGroup,
	cfg *config.Config,
	reservationRateLimiter *middleware.RateLimiter,
	reservationHandler *handlers.ReservationHandler,
	healthHandler *handlers.HealthHandler,
) {
	bodyLimit := middleware.BodySizeLimitMiddleware(cfg.Server.MaxBodyBytes)

	group.POST("/reservation", reservationRateLimiter.Middleware(), bodyLimit, reservationHandler.SubmitReservation)
	group.POST("/reserve", reservationRateLimiter.Middleware(), bodyLimit, reservationHandler.ReserveLegacy)

	// Operational endpoints
	group.GET("/healthcheck", healthHandler.Healthcheck)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Letisko Transfer API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling is opt-in
	stopProfiler, err := profiling.InitProfiler(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	if cfg.IsProduction() {
		if missing := cfg.Mail.Missing(); len(missing) > 0 {
			logger.Warn("Mail relay is not configured; reservations will fail until it is",
				zap.Strings("missing", missing))
		}
	} else {
		logger.Warn("Non-production mode: reservations are logged and acknowledged without validation or email")
	}

	// Initialize services
	dispatcher := mail.NewSMTPDispatcher(cfg.Mail)
	reservationService := services.NewReservationService(cfg, dispatcher)

	// Initialize handlers
	reservationHandler := handlers.NewReservationHandler(reservationService)
	healthHandler := handlers.NewHealthHandler(reservationService.MailConfigured)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.MessageFailure("Internal server error"))
	}))
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ObservabilityMiddleware(healthPath, metricsPath))
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only the site origins may post reservations
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Reservations are cheap to send and each one sends an email
	reservationRateLimiter := middleware.NewRateLimiter(
		middleware.PerMinute(cfg.RateLimit.ReservationsPerMinute),
		cfg.RateLimit.ReservationBurst,
	)

	api := router.Group("/api")
	registerAPIRoutes(api, cfg, reservationRateLimiter, reservationHandler, healthHandler)

	mailTimeout := time.Duration(cfg.Mail.TimeoutSeconds) * time.Second
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30*time.Second + mailTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second+mailTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
