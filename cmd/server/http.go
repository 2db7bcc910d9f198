package main

import (
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/fieldops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const (
	openAPIPath = "/openapi.json"
	searchPath  = "/api/v1/optimoroute/search"
)

func newEngine(
	cfg *config.Config,
	log *zap.Logger,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	tel *telemetryStack,
	handlers router.Handlers,
) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: tel.meter,
		Prometheus:    tel.prom,
		Enabled:       cfg.Telemetry.MetricsEnabled || cfg.Telemetry.PrometheusEnabled,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:         cfg.HTTP.CORSAllowOrigins,
		AllowMethods:         cfg.HTTP.CORSAllowMethods,
		AllowHeaders:         cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:        middleware.DefaultCORSConfig().ExposeHeaders,
		AllowCredentials:     true,
		MaxAge:               middleware.DefaultCORSConfig().MaxAge,
		PreflightPassthrough: []string{searchPath},
	}))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	requireAuth := []gin.HandlerFunc{jwtMiddleware, middleware.TracingAttributeInjector()}
	if cfg.Telemetry.ProfilingEnabled {
		requireAuth = append(requireAuth, middleware.ProfilingAttributeInjector())
	}

	engine.GET("/health", handlers.System.Health)
	if tel.prom != nil {
		engine.GET("/metrics", middleware.MetricsHandler(tel.prom))
	}

	docs := engine.Group("", middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.App.Env == "production",
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, jwtMiddleware))
	docs.StaticFile(openAPIPath, cfg.Swagger.SpecPath)
	docs.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(openAPIPath)))

	router.NewRouter(engine).
		RegisterGroups(router.APIGroups(handlers, requireAuth...)...).
		Setup()

	return engine
}
