package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/drug-recommendation-server/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/drug-recommendation-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("DRUGREC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit", 20.0)
	viper.SetDefault("server.rate_burst", 40)

	// Dataset defaults
	viper.SetDefault("dataset.source", "tsv")
	viper.SetDefault("dataset.train_path", "data/drugLibTrain_raw.tsv")
	viper.SetDefault("dataset.test_path", "data/drugLibTest_raw.tsv")
	viper.SetDefault("dataset.sqlite_path", "data/reviews.db")

	// Classifier defaults
	viper.SetDefault("classifier.epochs", 200)
	viper.SetDefault("classifier.learning_rate", 0.1)
	viper.SetDefault("classifier.min_examples", 10)

	// Cache defaults
	viper.SetDefault("cache.prediction_cache_size", 512)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetDatasetConfig returns dataset configuration
func (m *Manager) GetDatasetConfig() *domain.DatasetConfig {
	return &m.config.Dataset
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RateLimit <= 0 {
		return fmt.Errorf("invalid rate limit: %f", config.Server.RateLimit)
	}

	// Validate dataset configuration
	switch strings.ToLower(config.Dataset.Source) {
	case "tsv":
		if config.Dataset.TrainPath == "" {
			return fmt.Errorf("dataset train path is required for tsv source")
		}
	case "sqlite":
		if config.Dataset.SQLitePath == "" {
			return fmt.Errorf("dataset sqlite path is required for sqlite source")
		}
	default:
		return fmt.Errorf("unknown dataset source: %s", config.Dataset.Source)
	}

	// Validate classifier configuration
	if config.Classifier.Epochs <= 0 {
		return fmt.Errorf("classifier epochs must be positive: %d", config.Classifier.Epochs)
	}
	if config.Classifier.LearningRate <= 0 {
		return fmt.Errorf("classifier learning rate must be positive: %f", config.Classifier.LearningRate)
	}

	// Validate cache configuration
	if config.Cache.PredictionCacheSize <= 0 {
		return fmt.Errorf("prediction cache size must be positive: %d", config.Cache.PredictionCacheSize)
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
