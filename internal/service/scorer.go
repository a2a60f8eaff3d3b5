package service

import (
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/dataset"
	"github.com/drug-recommendation-server/internal/domain"
)

const (
	// maxCandidates is the ranking cutoff before per-candidate
	// processing further restricts to maxRecommendations.
	maxCandidates = 5

	// reviewCountScoreCap bounds the evidence term of the composite
	// score so heavily-reviewed drugs cannot dominate on volume alone.
	reviewCountScoreCap = 20
)

// DrugScorer computes composite desirability scores for candidate
// drugs across the matched conditions.
type DrugScorer struct {
	index  *dataset.Index
	logger *logrus.Logger
}

// NewDrugScorer creates a scorer over the given immutable index.
func NewDrugScorer(index *dataset.Index, logger *logrus.Logger) *DrugScorer {
	return &DrugScorer{
		index:  index,
		logger: logger,
	}
}

// Score ranks candidate drugs for the matched conditions and returns
// the top candidates, best first. Dataset conditions are matched
// fuzzily: a matched term that is a substring of the dataset condition
// counts, and so does the reverse, because the synonym vocabulary
// rarely aligns exactly with the historical dataset's condition names.
// A drug reachable through several conditions keeps only its highest-
// scoring aggregate. Ties are broken by drug name so ranking is
// deterministic.
func (s *DrugScorer) Score(conditions []string) []domain.ScoredCandidate {
	best := make(map[string]domain.ScoredCandidate)

	for _, dbCondition := range s.index.Conditions() {
		if !conditionOverlaps(dbCondition, conditions) {
			continue
		}

		for drug, stats := range s.index.Stats(dbCondition) {
			candidate := domain.ScoredCandidate{
				Drug:             drug,
				AvgRating:        stats.AvgRating(),
				AvgEffectiveness: stats.AvgEffectiveness(),
				AvgSideEffects:   stats.AvgSideEffects(),
				ReviewCount:      stats.ReviewCount(),
				Condition:        dbCondition,
			}
			candidate.Score = compositeScore(candidate)

			if current, ok := best[drug]; !ok || candidate.Score > current.Score {
				best[drug] = candidate
			}
		}
	}

	ranked := make([]domain.ScoredCandidate, 0, len(best))
	for _, candidate := range best {
		ranked = append(ranked, candidate)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Drug < ranked[j].Drug
	})

	if len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}

	s.logger.WithFields(logrus.Fields{
		"conditions": conditions,
		"candidates": len(ranked),
	}).Debug("Scored candidate drugs")

	return ranked
}

// conditionOverlaps reports whether any matched condition term and the
// dataset condition contain one another.
func conditionOverlaps(dbCondition string, conditions []string) bool {
	for _, condition := range conditions {
		if strings.Contains(dbCondition, condition) || strings.Contains(condition, dbCondition) {
			return true
		}
	}
	return false
}

// compositeScore weighs effectiveness most heavily, rewards ratings
// and review volume, and penalizes side effects.
func compositeScore(c domain.ScoredCandidate) float64 {
	return c.AvgRating*0.3 +
		c.AvgEffectiveness*2.0 -
		c.AvgSideEffects*0.5 +
		math.Min(float64(c.ReviewCount), reviewCountScoreCap)*0.1
}
