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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/thermalsanctuary/booking-backend/internal/config"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/handlers"
	"github.com/thermalsanctuary/booking-backend/internal/middleware"
	"github.com/thermalsanctuary/booking-backend/internal/services"
	"github.com/thermalsanctuary/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Thermal Sanctuary booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(ctx, db.DB)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	// Optional Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		logger.WithField("addr", cfg.Redis.Addr).Info("Redis connection established")
	}

	// Repositories
	serviceRepository := database.NewServiceRepository(db.DB)
	slotRepository := database.NewSlotRepository(db.DB)
	bookingRepository := database.NewBookingRepository(db.DB, database.FallbackSlotPolicy())
	siteConfigRepository := database.NewSiteConfigRepository(db)
	adminUserRepository := database.NewAdminUserRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	catalogService := services.NewCatalogService(serviceRepository, slotRepository, siteConfigRepository, logger)
	bookingService := services.NewBookingService(
		bookingRepository,
		serviceRepository,
		siteConfigRepository,
		services.BookingServiceConfig{
			TicketCodeAttempts: cfg.Booking.TicketCodeAttempts,
			Location:           cfg.Location(),
		},
		logger,
	)
	adminBookingService := services.NewAdminBookingService(bookingRepository, logger)
	adminAuthService := services.NewAdminAuthService(adminUserRepository, jwtService, cfg.Security.BcryptCost, logger)

	var sessionStore services.SessionStore
	switch cfg.Session.Store {
	case "redis":
		sessionStore = services.NewRedisSessionStore(redisClient)
	default:
		sessionStore = services.NewMemorySessionStore()
	}
	wizardSessionService := services.NewWizardSessionService(
		sessionStore,
		services.NewLocalBackend(catalogService, bookingService),
		services.WizardSessionConfig{TTL: cfg.Session.TTL, LockTTL: cfg.Session.LockTTL, Location: cfg.Location()},
		logger,
	)

	// Expired sessions only need sweeping when they live in process memory
	var sweeper *services.SessionSweeper
	if cfg.Session.Store == "memory" {
		sweeper = services.NewSessionSweeper(wizardSessionService, cfg.Session.SweepInterval, logger)
		sweeper.Start()
		logger.Info("✓ Wizard session sweeper started")
	}

	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, window, cfg.RateLimit.Burst)
	stopCleanup := startLimiterCleanup(limiter, window, logger)

	logger.Info("Services initialized")

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	wizardSessionHandler := handlers.NewWizardSessionHandler(wizardSessionService)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthService, logger)
	adminHandler := handlers.NewAdminHandler(adminBookingService, catalogService)

	checks := map[string]handlers.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler := handlers.NewHealthHandler(checks)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Catalog (public)
		v1.GET("/services", catalogHandler.ListServices)
		v1.GET("/slots", catalogHandler.ListSlots)
		v1.GET("/site-config", catalogHandler.GetSiteConfig)

		// Bookings and tickets (public)
		v1.POST("/bookings", middleware.RateLimit(limiter), bookingHandler.CreateBooking)
		v1.GET("/tickets/:code", bookingHandler.GetTicket)
		v1.GET("/tickets/:code/print", bookingHandler.GetTicketPrint)

		// Hosted wizard sessions
		sessions := v1.Group("/wizard/sessions")
		sessions.Use(middleware.RateLimit(limiter))
		{
			sessions.POST("", wizardSessionHandler.Create)
			sessions.GET("/:id", wizardSessionHandler.Get)
			sessions.POST("/:id/actions", wizardSessionHandler.Apply)
			sessions.DELETE("/:id", wizardSessionHandler.Delete)
		}

		// Admin authentication (public)
		adminAuth := v1.Group("/admin/auth")
		{
			adminAuth.POST("/login", middleware.RateLimit(limiter), adminAuthHandler.Login)
			adminAuth.POST("/refresh", adminAuthHandler.RefreshToken)
		}

		// Admin routes (require admin JWT)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole(services.AdminRole))
		{
			admin.GET("/me", adminAuthHandler.Me)

			admin.GET("/bookings", adminHandler.ListBookings)
			admin.PATCH("/bookings/:id/status", adminHandler.UpdateBookingStatus)

			admin.POST("/services", adminHandler.CreateService)
			admin.PUT("/services/:id", adminHandler.UpdateService)
			admin.DELETE("/services/:id", adminHandler.DeleteService)

			admin.PUT("/slots", adminHandler.UpsertSlot)
			admin.PUT("/site-config/:key", adminHandler.SetSiteConfig)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if sweeper != nil {
		logger.Info("Stopping session sweeper...")
		sweeper.Stop()
	}
	close(stopCleanup)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// startLimiterCleanup forgets idle clients once per window until the
// returned channel is closed
func startLimiterCleanup(limiter *middleware.RateLimiter, window time.Duration, logger *logrus.Logger) chan struct{} {
	stop := make(chan struct{})
	if window <= 0 {
		window = time.Minute
	}
	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := limiter.Cleanup(); n > 0 {
					logger.WithField("removed", n).Debug("Rate limiter cleanup")
				}
			case <-stop:
				return
			}
		}
	}()
	return stop
}
