package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// DatasetConfig selects and locates the historical review dataset.
// Source is either "tsv" (the raw drugLib TSV pair) or "sqlite"
// (an embedded database with a reviews table).
type DatasetConfig struct {
	Source     string `mapstructure:"source"`
	TrainPath  string `mapstructure:"train_path"`
	TestPath   string `mapstructure:"test_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ClassifierConfig tunes the load-time attribution model training.
type ClassifierConfig struct {
	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning_rate"`
	MinExamples  int     `mapstructure:"min_examples"`
}

// CacheConfig represents the prediction response cache configuration
type CacheConfig struct {
	PredictionCacheSize int `mapstructure:"prediction_cache_size"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
