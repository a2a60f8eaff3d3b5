package domain

import (
	"context"
)

// Recommender is the capability the HTTP layer consumes: a pure,
// idempotent prediction over a request-scoped profile, plus a readiness
// probe for the build-time load.
type Recommender interface {
	Predict(ctx context.Context, profile *PatientProfile) (*PredictionResponse, error)
	DrugInfo(name string) (*DrugInfo, bool)
	Ready() bool
}

// Classifier is the injected attribution capability. Train fits a
// binary model over 4-dimensional feature vectors and returns
// ErrInsufficientTrainingData when too few examples exist; Explain
// returns a signed per-feature attribution for one feature vector.
type Classifier interface {
	Train(features [][]float64, labels []int) error
	Explain(features []float64) []float64
	Trained() bool
}

// RecordSource produces the raw historical review records the index
// builder consumes. Load is a one-shot, synchronous read.
type RecordSource interface {
	Load(ctx context.Context) ([]ReviewRecord, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatasetConfig() *DatasetConfig
	Reload() error
	Validate() error
}
