package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/domain"
)

// Display names for the classifier's feature dimensions, in feature
// vector order.
var attributionFeatureNames = []string{
	"Patient Rating",
	"Drug Effectiveness",
	"Side Effect Risk",
	"Clinical Evidence",
}

// reviewCountFeatureCap bounds the evidence dimension of the
// classifier feature vector, mirroring the cap used at training time.
const reviewCountFeatureCap = 100

// AttributionEngine produces ranked, percentage-scaled explanations for
// a scored candidate, from the trained classifier when one is available
// and from a deterministic heuristic otherwise.
type AttributionEngine struct {
	classifier domain.Classifier
	logger     *logrus.Logger
}

// NewAttributionEngine creates an attribution engine. The classifier
// may be untrained; the engine falls back to the heuristic path then.
func NewAttributionEngine(classifier domain.Classifier, logger *logrus.Logger) *AttributionEngine {
	return &AttributionEngine{
		classifier: classifier,
		logger:     logger,
	}
}

// Explain returns the four per-feature explanations for one candidate,
// sorted by influence descending.
func (e *AttributionEngine) Explain(candidate domain.ScoredCandidate) []domain.Explanation {
	var explanations []domain.Explanation
	if e.classifier != nil && e.classifier.Trained() {
		explanations = e.classifierExplanations(candidate)
	} else {
		explanations = e.fallbackExplanations(candidate)
	}

	sort.SliceStable(explanations, func(i, j int) bool {
		return explanations[i].Influence > explanations[j].Influence
	})
	return explanations
}

// classifierExplanations converts the model's signed attributions into
// influence percentages over the four features.
func (e *AttributionEngine) classifierExplanations(candidate domain.ScoredCandidate) []domain.Explanation {
	features := []float64{
		candidate.AvgRating,
		candidate.AvgEffectiveness,
		candidate.AvgSideEffects,
		math.Min(float64(candidate.ReviewCount), reviewCountFeatureCap),
	}
	attributions := e.classifier.Explain(features)

	var total float64
	for _, a := range attributions {
		total += math.Abs(a)
	}

	explanations := make([]domain.Explanation, 0, len(attributions))
	for i, a := range attributions {
		direction := domain.DirectionNegative
		if a > 0 {
			direction = domain.DirectionPositive
		}
		explanations = append(explanations, domain.Explanation{
			Feature:   attributionFeatureNames[i],
			Influence: round1(math.Abs(a) / (total + 0.001) * 100),
			Direction: direction,
		})
	}
	return explanations
}

// fallbackExplanations is the deterministic heuristic used when no
// classifier was trained.
func (e *AttributionEngine) fallbackExplanations(candidate domain.ScoredCandidate) []domain.Explanation {
	ratingDirection := domain.DirectionNegative
	if candidate.AvgRating >= 7 {
		ratingDirection = domain.DirectionPositive
	}
	sideEffectDirection := domain.DirectionNegative
	if candidate.AvgSideEffects <= 2 {
		sideEffectDirection = domain.DirectionPositive
	}

	return []domain.Explanation{
		{
			Feature:   fmt.Sprintf("Average patient rating (%.1f/10)", candidate.AvgRating),
			Influence: round1(math.Min(candidate.AvgRating*5, 40)),
			Direction: ratingDirection,
		},
		{
			Feature:   "Drug effectiveness score",
			Influence: round1(candidate.AvgEffectiveness * 8),
			Direction: domain.DirectionPositive,
		},
		{
			Feature:   "Low side effect profile",
			Influence: round1(math.Max((5-candidate.AvgSideEffects)*6, 5)),
			Direction: sideEffectDirection,
		},
		{
			Feature:   fmt.Sprintf("Clinical evidence (%d reviews)", candidate.ReviewCount),
			Influence: round1(math.Min(float64(candidate.ReviewCount)*0.5, 15)),
			Direction: domain.DirectionPositive,
		},
	}
}

// PatientFactors returns the per-candidate patient-specific
// explanations appended on both attribution paths.
func PatientFactors(profile *domain.PatientProfile) []domain.Explanation {
	ageInfluence, ageDirection := 10.0, domain.DirectionPositive
	if profile.Age < 18 || profile.Age > 65 {
		ageInfluence, ageDirection = 5.0, domain.DirectionNegative
	}

	factors := []domain.Explanation{
		{
			Feature:   fmt.Sprintf("Age factor (%d years)", profile.Age),
			Influence: ageInfluence,
			Direction: ageDirection,
		},
	}

	if profile.HeartRate > 60 && profile.HeartRate < 100 {
		factors = append(factors, domain.Explanation{
			Feature:   fmt.Sprintf("Normal heart rate (%d bpm)", profile.HeartRate),
			Influence: 8.0,
			Direction: domain.DirectionPositive,
		})
	}

	return factors
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
