package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/dataset"
	"github.com/drug-recommendation-server/internal/domain"
)

const (
	// maxRecommendations restricts the per-request recommendation list.
	maxRecommendations = 3

	// maxExplanations truncates the merged explanation list.
	maxExplanations = 6

	// confidenceCap bounds recommendation confidence.
	confidenceCap = 0.95
)

// loadedModel bundles the immutable artifacts of one completed
// build-time load. It is swapped in atomically so requests either see
// a complete model or none at all.
type loadedModel struct {
	index       *dataset.Index
	scorer      *DrugScorer
	attribution *AttributionEngine
	screener    *SafetyScreener
}

// Engine is the recommendation orchestrator. It composes condition
// matching, scoring, attribution, safety screening, and dosage rules
// into the prediction response, and rejects requests until Load has
// completed. Predict is pure over the loaded model, which makes the
// response cache sound.
type Engine struct {
	logger *logrus.Logger
	cache  *lru.Cache[string, *domain.PredictionResponse]
	model  atomic.Pointer[loadedModel]
}

// NewEngine creates an engine that is not ready until Load is called.
func NewEngine(cacheSize int, logger *logrus.Logger) (*Engine, error) {
	cache, err := lru.New[string, *domain.PredictionResponse](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction cache: %w", err)
	}
	return &Engine{
		logger: logger,
		cache:  cache,
	}, nil
}

// Load installs the built index and the (possibly untrained)
// classifier, making the engine ready.
func (e *Engine) Load(index *dataset.Index, classifier domain.Classifier) {
	model := &loadedModel{
		index:       index,
		scorer:      NewDrugScorer(index, e.logger),
		attribution: NewAttributionEngine(classifier, e.logger),
		screener:    NewSafetyScreener(e.logger),
	}
	e.model.Store(model)

	e.logger.WithFields(logrus.Fields{
		"conditions":         len(index.Conditions()),
		"drugs":              index.DrugCount(),
		"classifier_trained": classifier != nil && classifier.Trained(),
	}).Info("Recommendation engine ready")
}

// Ready reports whether the build-time load has completed.
func (e *Engine) Ready() bool {
	return e.model.Load() != nil
}

// DrugInfo returns the indexed info for a drug name.
func (e *Engine) DrugInfo(name string) (*domain.DrugInfo, bool) {
	model := e.model.Load()
	if model == nil {
		return nil, false
	}
	return model.index.DrugInfo(name)
}

// Predict generates ranked drug recommendations with explanations and
// interaction warnings for one patient profile. It returns
// domain.ErrNotReady until the load completes.
func (e *Engine) Predict(ctx context.Context, profile *domain.PatientProfile) (*domain.PredictionResponse, error) {
	model := e.model.Load()
	if model == nil {
		return nil, domain.ErrNotReady
	}

	key, err := cacheKey(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to build cache key: %w", err)
	}
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	matched := MatchConditions(profile.Symptoms, profile.MedicalHistory)
	if len(matched) == 0 {
		matched = DefaultConditions()
	}

	candidates := model.scorer.Score(matched)
	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}

	var recommendations []domain.DrugRecommendation
	var explanations []domain.Explanation
	var interactions []domain.DrugInteraction

	for _, candidate := range candidates {
		if isAllergic(candidate.Drug, profile.Allergies) {
			continue
		}

		dosage, frequency := RecommendDosage(profile.Age, profile.HeartRate)

		recommendations = append(recommendations, domain.DrugRecommendation{
			Name:            titleCase(candidate.Drug),
			Confidence:      round2(math.Max(0, math.Min(confidenceCap, candidate.Score/15))),
			Dosage:          dosage,
			Frequency:       frequency,
			Effectiveness:   effectivenessLabel(candidate.AvgEffectiveness),
			SideEffectsRisk: sideEffectRiskLabel(candidate.AvgSideEffects),
			ConditionMatch:  candidate.Condition,
		})

		explanations = append(explanations, model.attribution.Explain(candidate)...)
		explanations = append(explanations, PatientFactors(profile)...)

		interactions = append(interactions,
			model.screener.Check(candidate.Drug, profile.CurrentMedications, profile.Allergies)...)
	}

	if len(recommendations) == 0 {
		recommendations, explanations = supportiveCareFallback()
	}

	explanations = normalizeExplanations(explanations)

	response := &domain.PredictionResponse{
		Recommendations: recommendations,
		Explanations:    explanations,
		Interactions:    interactions,
	}
	e.cache.Add(key, response)

	e.logger.WithFields(logrus.Fields{
		"matched_conditions": matched,
		"recommendations":    len(recommendations),
		"interactions":       len(interactions),
	}).Info("Prediction completed")

	return response, nil
}

// supportiveCareFallback is the zero-recommendations branch: every
// scored candidate was filtered out (or none existed), so the response
// carries the fixed supportive-care entry and exactly two explanations.
func supportiveCareFallback() ([]domain.DrugRecommendation, []domain.Explanation) {
	recommendations := []domain.DrugRecommendation{
		{
			Name:            "General Supportive Care",
			Confidence:      0.65,
			Dosage:          "As directed",
			Frequency:       "Per physician instructions",
			Effectiveness:   "Varies",
			SideEffectsRisk: "Low Risk",
			ConditionMatch:  "general",
		},
	}
	explanations := []domain.Explanation{
		{
			Feature:   "No specific drug indication from symptoms",
			Influence: 50.0,
			Direction: domain.DirectionNegative,
		},
		{
			Feature:   "Physician consultation recommended",
			Influence: 50.0,
			Direction: domain.DirectionPositive,
		},
	}
	return recommendations, explanations
}

// normalizeExplanations keeps the top entries of the combined list by
// influence and renormalizes them to sum to 100.0. Rounding residue is
// folded into the largest entry so the returned influences sum to
// exactly 100.0 at one-decimal precision. A zero total skips
// renormalization instead of dividing by zero.
func normalizeExplanations(explanations []domain.Explanation) []domain.Explanation {
	sort.SliceStable(explanations, func(i, j int) bool {
		return explanations[i].Influence > explanations[j].Influence
	})
	if len(explanations) > maxExplanations {
		explanations = explanations[:maxExplanations]
	}

	var total float64
	for _, exp := range explanations {
		total += exp.Influence
	}
	if total <= 0 {
		return explanations
	}

	var roundedSum float64
	for i := range explanations {
		explanations[i].Influence = round1(explanations[i].Influence / total * 100)
		roundedSum += explanations[i].Influence
	}
	if len(explanations) > 0 {
		explanations[0].Influence = round1(explanations[0].Influence + 100 - roundedSum)
	}
	return explanations
}

// isAllergic reports whether the drug name and any allergy string
// contain one another, case-insensitively.
func isAllergic(drug string, allergies []string) bool {
	for _, allergy := range allergies {
		allergyLower := strings.ToLower(allergy)
		if allergyLower == "" {
			continue
		}
		if strings.Contains(drug, allergyLower) || strings.Contains(allergyLower, drug) {
			return true
		}
	}
	return false
}

// effectivenessLabel maps an aggregate effectiveness score to its
// response label.
func effectivenessLabel(score float64) string {
	switch {
	case score >= 4.5:
		return "Highly Effective"
	case score >= 3.5:
		return "Considerably Effective"
	case score >= 2.5:
		return "Moderately Effective"
	default:
		return "Marginally Effective"
	}
}

// sideEffectRiskLabel maps an aggregate side-effect score to its
// response label.
func sideEffectRiskLabel(score float64) string {
	switch {
	case score <= 1.5:
		return "Low Risk"
	case score <= 2.5:
		return "Mild Risk"
	case score <= 3.5:
		return "Moderate Risk"
	default:
		return "High Risk"
	}
}

// cacheKey hashes the canonical JSON form of the profile.
func cacheKey(profile *domain.PatientProfile) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
