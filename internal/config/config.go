package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Analytics AnalyticsConfig
	Dashboard DashboardConfig
	Overview  OverviewConfig
	Auth      AuthConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AnalyticsConfig holds configuration for the external analytics service
// that performs price retrieval, sentiment scoring and decision modeling.
type AnalyticsConfig struct {
	URL     string `validate:"required,url"`
	Timeout time.Duration
}

// DashboardConfig holds view-model specific configuration
type DashboardConfig struct {
	StocksPerPage int `validate:"min=1"`
	PostsPerPage  int `validate:"min=1"`
	// Fixed historical window sent with every market-sentiment request.
	MarketStartDate string `validate:"required"`
	MarketEndDate   string `validate:"required"`
}

// OverviewConfig holds the curated market-overview content served on the
// landing page.
type OverviewConfig struct {
	PopularSymbols []string
	TopSymbols     []string
}

// AuthConfig holds optional JWT authentication configuration. A secret
// is required whenever auth is enabled; an empty HMAC secret would
// accept trivially forged tokens.
type AuthConfig struct {
	Enabled bool
	Secret  string `validate:"required_if=Enabled true"`
}

// KafkaConfig holds Kafka specific configuration
type KafkaConfig struct {
	Enabled bool
	Brokers string
	Topic   string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "120s")

	// Analytics service defaults
	v.SetDefault("analytics.url", "http://localhost:8000")
	v.SetDefault("analytics.timeout", "10s")

	// Dashboard defaults
	v.SetDefault("dashboard.stocksPerPage", 5)
	v.SetDefault("dashboard.postsPerPage", 10)
	v.SetDefault("dashboard.marketStartDate", "2020-01-01")
	v.SetDefault("dashboard.marketEndDate", "2024-11-20")

	// Overview defaults
	v.SetDefault("overview.popularSymbols", []string{"AAPL", "GOOGL", "META", "NVDA", "AMZN"})
	v.SetDefault("overview.topSymbols", []string{"AAPL", "GOOGL", "META", "NVDA", "AMZN"})

	// Auth defaults
	v.SetDefault("auth.enabled", false)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "dashboard-events")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
