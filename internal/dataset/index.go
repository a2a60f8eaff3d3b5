package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/domain"
)

// Ordinal scales for the categorical review labels. Unknown or missing
// labels fall back to the middle ordinal.
var effectivenessScale = map[string]float64{
	"Highly Effective":       5,
	"Considerably Effective": 4,
	"Moderately Effective":   3,
	"Marginally Effective":   2,
	"Ineffective":            1,
}

var sideEffectScale = map[string]float64{
	"No Side Effects":               1,
	"Mild Side Effects":             2,
	"Moderate Side Effects":         3,
	"Severe Side Effects":           4,
	"Extremely Severe Side Effects": 5,
}

const (
	defaultEffectivenessScore = 3
	defaultSideEffectScore    = 2
	defaultRating             = 5
)

// Index holds the per-condition, per-drug aggregates and the per-drug
// info built once from the historical records. It is immutable after
// Build returns and safe for concurrent reads.
type Index struct {
	conditions    map[string]map[string]*domain.DrugStats
	conditionKeys []string
	drugs         map[string]domain.DrugInfo
}

// Build constructs the index from raw review records. Records missing
// condition, drug, or effectiveness are discarded; names are lowercased
// and trimmed before keying.
func Build(records []domain.ReviewRecord, logger *logrus.Logger) (*Index, error) {
	idx := &Index{
		conditions: make(map[string]map[string]*domain.DrugStats),
		drugs:      make(map[string]domain.DrugInfo),
	}

	discarded := 0
	for _, record := range records {
		condition := strings.ToLower(strings.TrimSpace(record.Condition))
		drug := strings.ToLower(strings.TrimSpace(record.Drug))
		if condition == "" || drug == "" || strings.TrimSpace(record.Effectiveness) == "" {
			discarded++
			continue
		}

		drugs, ok := idx.conditions[condition]
		if !ok {
			drugs = make(map[string]*domain.DrugStats)
			idx.conditions[condition] = drugs
		}
		stats, ok := drugs[drug]
		if !ok {
			stats = &domain.DrugStats{}
			drugs[drug] = stats
		}

		rating := float64(defaultRating)
		if record.HasRating {
			rating = record.Rating
		}
		stats.Ratings = append(stats.Ratings, rating)

		effectiveness, ok := effectivenessScale[record.Effectiveness]
		if !ok {
			effectiveness = defaultEffectivenessScore
		}
		stats.EffectivenessScores = append(stats.EffectivenessScores, effectiveness)

		sideEffects, ok := sideEffectScale[record.SideEffects]
		if !ok {
			sideEffects = defaultSideEffectScore
		}
		stats.SideEffectScores = append(stats.SideEffectScores, sideEffects)

		if _, ok := idx.drugs[drug]; !ok {
			info := domain.DrugInfo{
				Effectiveness:     record.Effectiveness,
				SideEffects:       record.SideEffects,
				BenefitsReview:    record.BenefitsReview,
				SideEffectsReview: record.SideEffectsReview,
			}
			if info.SideEffects == "" {
				info.SideEffects = "Unknown"
			}
			idx.drugs[drug] = info
		}
	}

	if len(idx.conditions) == 0 {
		return nil, fmt.Errorf("no usable review records: %d records missing required fields", discarded)
	}

	idx.conditionKeys = make([]string, 0, len(idx.conditions))
	for condition := range idx.conditions {
		idx.conditionKeys = append(idx.conditionKeys, condition)
	}
	sort.Strings(idx.conditionKeys)

	logger.WithFields(logrus.Fields{
		"conditions": len(idx.conditions),
		"drugs":      len(idx.drugs),
		"discarded":  discarded,
	}).Info("Built condition index")

	return idx, nil
}

// Conditions returns the sorted condition keys of the index.
func (idx *Index) Conditions() []string {
	return idx.conditionKeys
}

// Stats returns the per-drug aggregates for one condition key.
func (idx *Index) Stats(condition string) map[string]*domain.DrugStats {
	return idx.conditions[condition]
}

// DrugInfo returns the stored info for a normalized drug name.
func (idx *Index) DrugInfo(name string) (*domain.DrugInfo, bool) {
	info, ok := idx.drugs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return &info, true
}

// DrugCount returns the number of distinct drugs in the index.
func (idx *Index) DrugCount() int {
	return len(idx.drugs)
}

// TrainingData produces the classifier feature matrix and labels over
// all (condition, drug) aggregates, in deterministic key order. The
// review count feature is capped at 100 to bound outlier influence;
// the label is 1 iff avg rating >= 7 and avg effectiveness >= 4.
func (idx *Index) TrainingData() ([][]float64, []int) {
	var features [][]float64
	var labels []int

	for _, condition := range idx.conditionKeys {
		drugs := idx.conditions[condition]
		names := make([]string, 0, len(drugs))
		for name := range drugs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			stats := drugs[name]
			avgRating := stats.AvgRating()
			avgEffectiveness := stats.AvgEffectiveness()

			features = append(features, []float64{
				avgRating,
				avgEffectiveness,
				stats.AvgSideEffects(),
				math.Min(float64(stats.ReviewCount()), 100),
			})

			label := 0
			if avgRating >= 7 && avgEffectiveness >= 4 {
				label = 1
			}
			labels = append(labels, label)
		}
	}

	return features, labels
}
