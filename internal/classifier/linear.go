// Package classifier provides the in-process attribution capability: a
// logistic model trained once at load time over the indexed
// (condition, drug) aggregates, with signed per-feature contributions
// as its explanation output. Training is fully deterministic: fixed
// epoch count, fixed iteration order, no randomized initialization.
package classifier

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/domain"
)

const featureCount = 4

// LinearModel is a standardized logistic-regression classifier over the
// 4-dimensional drug feature vector. It implements domain.Classifier.
type LinearModel struct {
	logger       *logrus.Logger
	epochs       int
	learningRate float64
	minExamples  int

	weights [featureCount]float64
	bias    float64
	means   [featureCount]float64
	scales  [featureCount]float64
	trained bool
}

// New creates an untrained linear model with the given training
// parameters.
func New(cfg domain.ClassifierConfig, logger *logrus.Logger) *LinearModel {
	return &LinearModel{
		logger:       logger,
		epochs:       cfg.Epochs,
		learningRate: cfg.LearningRate,
		minExamples:  cfg.MinExamples,
	}
}

// Train fits the model by batch gradient descent. It returns
// domain.ErrInsufficientTrainingData when the example count does not
// exceed the configured minimum, leaving the model untrained.
func (m *LinearModel) Train(features [][]float64, labels []int) error {
	if len(features) != len(labels) {
		return fmt.Errorf("feature/label length mismatch: %d vs %d", len(features), len(labels))
	}
	if len(features) <= m.minExamples {
		return fmt.Errorf("%w: have %d examples, need more than %d",
			domain.ErrInsufficientTrainingData, len(features), m.minExamples)
	}
	for i, f := range features {
		if len(f) != featureCount {
			return fmt.Errorf("feature vector %d has %d dimensions, want %d", i, len(f), featureCount)
		}
	}

	m.standardize(features)

	n := float64(len(features))
	for epoch := 0; epoch < m.epochs; epoch++ {
		var gradW [featureCount]float64
		var gradB float64

		for i, f := range features {
			pred := m.predict(f)
			err := pred - float64(labels[i])
			for j := 0; j < featureCount; j++ {
				gradW[j] += err * m.scaled(f, j)
			}
			gradB += err
		}

		for j := 0; j < featureCount; j++ {
			m.weights[j] -= m.learningRate * gradW[j] / n
		}
		m.bias -= m.learningRate * gradB / n
	}

	m.trained = true
	m.logger.WithFields(logrus.Fields{
		"examples": len(features),
		"epochs":   m.epochs,
	}).Info("Trained attribution classifier")

	return nil
}

// Explain returns the signed contribution of each feature to the
// model's decision for one feature vector: the learned weight applied
// to the standardized feature value.
func (m *LinearModel) Explain(features []float64) []float64 {
	contributions := make([]float64, featureCount)
	if !m.trained || len(features) != featureCount {
		return contributions
	}
	for j := 0; j < featureCount; j++ {
		contributions[j] = m.weights[j] * m.scaled(features, j)
	}
	return contributions
}

// Trained reports whether a model has been fitted.
func (m *LinearModel) Trained() bool {
	return m.trained
}

// standardize computes per-feature means and scales over the training
// set so gradient descent works on comparable magnitudes.
func (m *LinearModel) standardize(features [][]float64) {
	n := float64(len(features))

	for j := 0; j < featureCount; j++ {
		var sum float64
		for _, f := range features {
			sum += f[j]
		}
		m.means[j] = sum / n
	}

	for j := 0; j < featureCount; j++ {
		var variance float64
		for _, f := range features {
			d := f[j] - m.means[j]
			variance += d * d
		}
		m.scales[j] = math.Sqrt(variance / n)
		if m.scales[j] == 0 {
			m.scales[j] = 1
		}
	}
}

func (m *LinearModel) scaled(features []float64, j int) float64 {
	return (features[j] - m.means[j]) / m.scales[j]
}

func (m *LinearModel) predict(features []float64) float64 {
	z := m.bias
	for j := 0; j < featureCount; j++ {
		z += m.weights[j] * m.scaled(features, j)
	}
	return 1 / (1 + math.Exp(-z))
}
