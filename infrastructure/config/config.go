package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion    string
	MinutesTable string
	SeriesTable  string
	SeriesIndex  string // GSI for listing minutes by series
	EventBusName string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Mail configuration
	EmailDeliveryEnabled bool
	DefaultEmailSender   string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Rate limiting, requests per minute per client IP
	RateLimitPerMinute int

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		MinutesTable:  getEnv("MINUTES_TABLE", "plenum-minutes"),
		SeriesTable:   getEnv("SERIES_TABLE", "plenum-series"),
		SeriesIndex:   getEnv("SERIES_INDEX_NAME", "SeriesIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "plenum-events"),

		// Lambda configuration
		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		// Mail configuration
		EmailDeliveryEnabled: getEnvBool("EMAIL_DELIVERY_ENABLED", false),
		DefaultEmailSender:   getEnv("DEFAULT_EMAIL_SENDER", "noreply@plenum.local"),

		// Authentication
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "plenum"),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		// Logging and features
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.MinutesTable == "" {
			return fmt.Errorf("MINUTES_TABLE is required")
		}
		if c.SeriesTable == "" {
			return fmt.Errorf("SERIES_TABLE is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
		if c.EmailDeliveryEnabled && c.DefaultEmailSender == "" {
			return fmt.Errorf("DEFAULT_EMAIL_SENDER is required when email delivery is enabled")
		}
	}

	return nil
}

// IsEmailDeliveryEnabled reports whether finalize notification mails go out
func (c *Config) IsEmailDeliveryEnabled() bool {
	return c.EmailDeliveryEnabled
}

// DefaultSenderAddress is the sender used when the finalizer has no email
func (c *Config) DefaultSenderAddress() string {
	return c.DefaultEmailSender
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
