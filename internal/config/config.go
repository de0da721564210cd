package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Stripe payment gateway configuration
	Stripe StripeConfig

	// SMS (Twilio) configuration
	SMS SMSConfig

	// Booking policy configuration
	Booking BookingConfig

	// Admin credentials
	Admin AdminConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// StripeConfig holds Stripe integration configuration
type StripeConfig struct {
	SecretKey     string // Stripe secret API key (SECRET - never expose to client)
	WebhookSecret string // Webhook endpoint signing secret
	BaseURL       string // Public base URL used to build success/cancel redirects
}

// SMSConfig holds Twilio SMS configuration
type SMSConfig struct {
	Mode        string // "dev" logs messages instead of sending, "production" sends via Twilio
	AccountSID  string
	AuthToken   string
	FromNumber  string // Twilio sender number
	AdminNumber string // Admin recipient for booking alerts
}

// BookingConfig holds deposit and pricing policy
type BookingConfig struct {
	RentalDeposit     float64 // flat deposit for rental bookings
	PhotoshootDeposit float64 // flat deposit for photoshoot bookings
	DefaultHourlyRate float64 // hourly rate used when a car has none
}

// AdminConfig holds the admin login credentials
type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt hash of the admin password
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 604800)) * time.Second,
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			BaseURL:       getEnv("BASE_URL", "http://localhost:3000"),
		},
		SMS: SMSConfig{
			Mode:        getEnv("SMS_MODE", "dev"), // "dev" or "production"
			AccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:  getEnv("TWILIO_PHONE_NUMBER", ""),
			AdminNumber: getEnv("ADMIN_PHONE_NUMBER", ""),
		},
		Booking: BookingConfig{
			RentalDeposit:     getEnvAsFloat("RENTAL_DEPOSIT_AMOUNT", 1500),
			PhotoshootDeposit: getEnvAsFloat("PHOTOSHOOT_DEPOSIT_AMOUNT", 500),
			DefaultHourlyRate: getEnvAsFloat("DEFAULT_HOURLY_RATE", 500),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "Stripe-Signature"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	// Validate SMS configuration only in production mode
	if c.SMS.Mode == "production" {
		if c.SMS.AccountSID == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID is required in production SMS mode")
		}

		if c.SMS.AuthToken == "" {
			return fmt.Errorf("TWILIO_AUTH_TOKEN is required in production SMS mode")
		}

		if c.SMS.FromNumber == "" {
			return fmt.Errorf("TWILIO_PHONE_NUMBER is required in production SMS mode")
		}

		if c.SMS.AdminNumber == "" {
			return fmt.Errorf("ADMIN_PHONE_NUMBER is required in production SMS mode")
		}
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid numeric value for %s, using default: %g", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
