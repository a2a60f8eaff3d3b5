// Package setup wires application components together at startup.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/classifier"
	"github.com/drug-recommendation-server/internal/dataset"
	"github.com/drug-recommendation-server/internal/domain"
	"github.com/drug-recommendation-server/internal/service"
)

// NewLogger builds a logrus logger from the logging configuration.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	switch cfg.Output {
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		logger.SetOutput(os.Stdout)
	}

	return logger
}

// NewRecordSource selects a review record source from the dataset configuration.
func NewRecordSource(cfg domain.DatasetConfig, logger *logrus.Logger) (domain.RecordSource, error) {
	switch cfg.Source {
	case "tsv":
		return dataset.NewTSVSource(cfg.TrainPath, cfg.TestPath, logger), nil
	case "sqlite":
		return dataset.NewSQLiteSource(cfg.SQLitePath, logger), nil
	default:
		return nil, fmt.Errorf("unsupported dataset source: %s", cfg.Source)
	}
}

// NewEngine constructs the recommendation engine with an empty model.
// LoadEngine must run before the engine reports ready.
func NewEngine(cfg *domain.Config, logger *logrus.Logger) (*service.Engine, error) {
	engine, err := service.NewEngine(cfg.Cache.PredictionCacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

// LoadEngine loads the review dataset, trains the classifier, and swaps
// the resulting model into the engine. The engine stays not ready until
// this completes, so it is safe to run in a background goroutine while
// the HTTP server is already accepting requests.
func LoadEngine(ctx context.Context, cfg *domain.Config, engine *service.Engine, logger *logrus.Logger) error {
	source, err := NewRecordSource(cfg.Dataset, logger)
	if err != nil {
		return err
	}

	records, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load review dataset: %w", err)
	}

	index, err := dataset.Build(records, logger)
	if err != nil {
		return fmt.Errorf("failed to build drug index: %w", err)
	}

	model := classifier.New(cfg.Classifier, logger)
	features, labels := index.TrainingData()
	if err := model.Train(features, labels); err != nil {
		if !errors.Is(err, domain.ErrInsufficientTrainingData) {
			return fmt.Errorf("failed to train classifier: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"examples": len(features),
			"minimum":  cfg.Classifier.MinExamples,
		}).Warn("Insufficient training data, falling back to heuristic explanations")
	}

	engine.Load(index, model)

	logger.WithFields(logrus.Fields{
		"records":    len(records),
		"conditions": len(index.Conditions()),
		"drugs":      index.DrugCount(),
	}).Info("Recommendation model loaded")

	return nil
}
