package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apexdrive/rental-backend/internal/config"
	"github.com/apexdrive/rental-backend/internal/database"
	"github.com/apexdrive/rental-backend/internal/handlers"
	"github.com/apexdrive/rental-backend/internal/middleware"
	"github.com/apexdrive/rental-backend/internal/services"
	"github.com/apexdrive/rental-backend/internal/utils"
	"github.com/apexdrive/rental-backend/pkg/jwt"
	"github.com/apexdrive/rental-backend/pkg/sms"
	"github.com/apexdrive/rental-backend/pkg/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
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

	logger.Info("Starting ApexDrive Rental Backend")
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

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize repositories
	carRepository := database.NewCarRepository(db)
	bookingRepository := database.NewBookingRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	pricingService := services.NewPricingService(cfg.Booking)
	stripeService := services.NewStripeService(cfg.Stripe, logger)
	adminAuthService := services.NewAdminAuthService(cfg.Admin, cfg.JWT, jwtService)

	// Initialize SMS gateway
	var smsGateway sms.Gateway
	if cfg.SMS.Mode == "production" {
		logger.Info("Initializing Twilio SMS Gateway in production mode...")
		phoneValidator := validator.NewPhoneValidator()
		fromNumber, err := phoneValidator.Validate(cfg.SMS.FromNumber)
		if err != nil {
			logger.Fatalf("Invalid TWILIO_FROM_NUMBER: %v", err)
		}
		adminNumber, err := phoneValidator.Validate(cfg.SMS.AdminNumber)
		if err != nil {
			logger.Fatalf("Invalid ADMIN_PHONE_NUMBER: %v", err)
		}
		cfg.SMS.FromNumber = fromNumber
		cfg.SMS.AdminNumber = adminNumber
		smsGateway = sms.NewTwilioGateway(sms.TwilioConfig{
			AccountSID: cfg.SMS.AccountSID,
			AuthToken:  cfg.SMS.AuthToken,
			FromNumber: cfg.SMS.FromNumber,
		})
	} else {
		logger.Info("SMS Gateway in development mode (no actual SMS will be sent)")
		smsGateway = sms.NewLogGateway(logger)
	}
	logger.Infof("SMS gateway ready: %s", smsGateway.GetName())

	notificationService := services.NewNotificationService(smsGateway, cfg.SMS.AdminNumber, logger)

	logger.Info("Services initialized")

	// Initialize handlers
	carHandler := handlers.NewCarHandler(carRepository)
	bookingHandler := handlers.NewBookingHandler(bookingRepository, carRepository, logger)
	checkoutHandler := handlers.NewCheckoutHandler(bookingRepository, carRepository, pricingService, stripeService, logger)
	webhookHandler := handlers.NewWebhookHandler(bookingRepository, stripeService, notificationService, logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Fleet browsing (public)
		cars := v1.Group("/cars")
		{
			cars.GET("", carHandler.ListCars)
			cars.GET("/:id", carHandler.GetCarByID)
		}

		// Direct booking without payment (public, legacy storefront flow)
		v1.POST("/booking", bookingHandler.CreateBooking)

		// Booking lookup for the post-checkout confirmation page (public)
		v1.GET("/bookings/key/:key", bookingHandler.GetBookingByKey)

		// Payment webhooks (public, authenticated by signature)
		webhooks := v1.Group("/webhook")
		{
			webhooks.POST("/stripe", webhookHandler.HandleStripeWebhook)
			webhooks.POST("/stripe/legacy", webhookHandler.HandleLegacyStripeWebhook)
		}

		// Checkout routes (authenticated users)
		checkout := v1.Group("/checkout")
		checkout.Use(middleware.AuthMiddleware(jwtService))
		{
			checkout.POST("/deposit", checkoutHandler.DepositCheckout)
		}

		// User bookings (authenticated users)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.GET("", bookingHandler.GetMyBookings)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			// Auth endpoints (public)
			adminAuth := admin.Group("/auth")
			{
				adminAuth.POST("/login", adminAuthHandler.Login)
				adminAuth.POST("/refresh", adminAuthHandler.RefreshToken)
			}

			// Protected admin endpoints
			adminProtected := admin.Group("")
			adminProtected.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
			{
				adminProtected.GET("/bookings", bookingHandler.ListBookings)
				adminProtected.POST("/checkout/final", checkoutHandler.FinalCheckout)

				adminProtected.POST("/cars", carHandler.CreateCar)
				adminProtected.PUT("/cars/:id", carHandler.UpdateCar)
				adminProtected.DELETE("/cars/:id", carHandler.DeleteCar)
			}
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

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(c.Request.UserAgent())

		// Build log entry with basic fields
		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          utils.GetRealIP(c),
			"latency_ms":  latency.Milliseconds(),
			"device_type": device.DeviceType,
			"os":          device.OS,
			"browser":     device.Browser,
		}
		if device.IsBot {
			fields["is_bot"] = true
		}

		// Record authorization presence, never the token itself
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		// Add user context if available
		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["roles"] = userCtx.Roles
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
