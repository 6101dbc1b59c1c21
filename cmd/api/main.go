package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadhub/leadhub/config"
	"github.com/leadhub/leadhub/pkg/api/handlers"
	apimw "github.com/leadhub/leadhub/pkg/api/middleware"
	"github.com/leadhub/leadhub/pkg/auth"
	"github.com/leadhub/leadhub/pkg/cache"
	"github.com/leadhub/leadhub/pkg/jobs"
	"github.com/leadhub/leadhub/pkg/leads"
	"github.com/leadhub/leadhub/pkg/logger"
	"github.com/leadhub/leadhub/pkg/metrics"
	custommiddleware "github.com/leadhub/leadhub/pkg/middleware"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/store"
	"github.com/leadhub/leadhub/pkg/store/memory"
	"github.com/leadhub/leadhub/pkg/store/mongodb"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.APIEnvironment)
	log.Info("configuration loaded", "environment", cfg.APIEnvironment, "backend", cfg.StoreBackend)

	ctx := context.Background()

	// Select the store backend. The in-memory variant is a disposable
	// substitute for development: seeded on startup, gone on shutdown.
	var (
		leadStore store.LeadStore
		userStore store.UserStore
	)
	switch cfg.StoreBackend {
	case "memory":
		mem := memory.New()
		mem.Seed(cfg.SeedCount)
		seedDemoUser(ctx, mem, log)
		leadStore = mem
		userStore = mem
		log.Info("in-memory store initialized", "leads", cfg.SeedCount)
	default:
		mongoStore, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Error("failed to connect to mongodb", "error", err)
			os.Exit(1)
		}
		defer mongoStore.Close(context.Background())
		leadStore = mongoStore
		userStore = mongoStore
		log.Info("mongodb connected", "database", cfg.MongoDB)
	}

	// Redis backs the search cache and the token blacklist. The server
	// still works without it; caching and logout revocation degrade.
	var (
		redisClient *cache.Client
		blacklist   *auth.TokenBlacklist
	)
	if c, err := cache.NewClient(cfg.RedisURL); err != nil {
		log.Warn("redis unavailable, running without cache", "error", err)
	} else {
		redisClient = c
		blacklist = auth.NewTokenBlacklist(c)
		defer redisClient.Close()
		log.Info("redis connected")
	}

	prometheusMetrics := metrics.New()

	leadService := leads.NewService(leadStore, redisClient, prometheusMetrics)

	cronManager := jobs.NewCronManager(leadService, log)
	if err := cronManager.SetupJobs(); err != nil {
		log.Error("failed to setup cron jobs", "error", err)
		os.Exit(1)
	}
	cronManager.Start()
	defer cronManager.Stop()

	authHandler := handlers.NewAuthHandler(userStore, cfg, blacklist, prometheusMetrics)
	leadHandler := handlers.NewLeadHandler(leadService, prometheusMetrics)

	e := echo.New()
	e.HideBanner = true

	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	authRateLimiter := custommiddleware.NewRateLimiter(5, 2) // login brute-force guard

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(prometheusMetrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowCredentials: true,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(globalRateLimiter.RateLimitMiddleware())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "LeadHub API",
			"version":     "1.0.0",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		storeStatus := "up"
		if err := leadStore.Ping(ctx); err != nil {
			storeStatus = "down"
		}

		cacheStatus := "up"
		if redisClient == nil {
			cacheStatus = "disabled"
		} else if err := redisClient.Ping(ctx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		overall := "healthy"
		if storeStatus == "down" {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}
		return c.JSON(status, map[string]any{
			"status": overall,
			"store":  storeStatus,
			"cache":  cacheStatus,
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register, authRateLimiter.RateLimitMiddleware())
		authRoutes.POST("/login", authHandler.Login, authRateLimiter.RateLimitMiddleware())
		authRoutes.GET("/me", authHandler.Me, apimw.JWTMiddlewareWithBlacklist(cfg.JWTSecret, blacklist, userStore))
		authRoutes.POST("/logout", authHandler.Logout, apimw.JWTMiddlewareWithBlacklist(cfg.JWTSecret, blacklist, userStore))
	}

	leadsGroup := api.Group("/leads")
	leadsGroup.Use(apimw.JWTMiddlewareWithBlacklist(cfg.JWTSecret, blacklist, userStore))
	{
		leadsGroup.GET("", leadHandler.List)
		// Must be registered before /:id to avoid route conflict.
		leadsGroup.GET("/analytics", leadHandler.Analytics)
		leadsGroup.POST("", leadHandler.Create)
		leadsGroup.GET("/:id", leadHandler.GetByID)
		leadsGroup.PUT("/:id", leadHandler.Update)
		leadsGroup.DELETE("/:id", leadHandler.Delete)
	}

	// Start server with graceful shutdown.
	go func() {
		addr := cfg.APIHost + ":" + cfg.APIPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}

// seedDemoUser provisions the development login for the in-memory backend.
func seedDemoUser(ctx context.Context, users store.UserStore, log logger.Logger) {
	hash, err := auth.HashPassword("demo123")
	if err != nil {
		log.Error("failed to hash demo password", "error", err)
		return
	}
	demo := models.User{
		Username:     "demo",
		Email:        "demo@example.com",
		FullName:     "Demo User",
		PasswordHash: hash,
	}
	if _, err := users.CreateUser(ctx, demo); err != nil {
		log.Warn("failed to seed demo user", "error", err)
	}
}
