package dataset

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drug-recommendation-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func record(drug, condition, effectiveness, sideEffects string, rating float64) domain.ReviewRecord {
	return domain.ReviewRecord{
		Drug:          drug,
		Condition:     condition,
		Effectiveness: effectiveness,
		SideEffects:   sideEffects,
		Rating:        rating,
		HasRating:     true,
	}
}

func TestBuild_Aggregation(t *testing.T) {
	records := []domain.ReviewRecord{
		record("Aspirin", "Headache", "Highly Effective", "Mild Side Effects", 8),
		record(" aspirin ", "HEADACHE", "Moderately Effective", "No Side Effects", 6),
		record("ibuprofen", "headache", "Considerably Effective", "Moderate Side Effects", 7),
	}

	idx, err := Build(records, testLogger())
	require.NoError(t, err)

	// Case-normalized keys collapse into one condition.
	assert.Equal(t, []string{"headache"}, idx.Conditions())

	stats := idx.Stats("headache")
	require.Contains(t, stats, "aspirin")
	require.Contains(t, stats, "ibuprofen")

	aspirin := stats["aspirin"]
	assert.Equal(t, 2, aspirin.ReviewCount())
	assert.InDelta(t, 7.0, aspirin.AvgRating(), 1e-9)
	assert.InDelta(t, 4.0, aspirin.AvgEffectiveness(), 1e-9) // (5+3)/2
	assert.InDelta(t, 1.5, aspirin.AvgSideEffects(), 1e-9)   // (2+1)/2
}

func TestBuild_DiscardsIncompleteRecords(t *testing.T) {
	records := []domain.ReviewRecord{
		record("aspirin", "", "Highly Effective", "Mild Side Effects", 8),
		record("", "headache", "Highly Effective", "Mild Side Effects", 8),
		record("aspirin", "headache", "", "Mild Side Effects", 8),
		record("aspirin", "headache", "Highly Effective", "Mild Side Effects", 8),
	}

	idx, err := Build(records, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, idx.Stats("headache")["aspirin"].ReviewCount())
}

func TestBuild_DefaultsForUnknownLabelsAndMissingRating(t *testing.T) {
	records := []domain.ReviewRecord{
		{
			Drug:          "mysterine",
			Condition:     "fatigue",
			Effectiveness: "Sort Of Works",
			SideEffects:   "",
		},
	}

	idx, err := Build(records, testLogger())
	require.NoError(t, err)

	stats := idx.Stats("fatigue")["mysterine"]
	assert.InDelta(t, 5.0, stats.AvgRating(), 1e-9)
	assert.InDelta(t, 3.0, stats.AvgEffectiveness(), 1e-9)
	assert.InDelta(t, 2.0, stats.AvgSideEffects(), 1e-9)
}

func TestBuild_FailsWithoutUsableRecords(t *testing.T) {
	records := []domain.ReviewRecord{
		record("aspirin", "", "Highly Effective", "", 8),
		record("", "headache", "", "", 8),
	}

	_, err := Build(records, testLogger())
	assert.Error(t, err)
}

func TestIndex_DrugInfo(t *testing.T) {
	records := []domain.ReviewRecord{
		{
			Drug:           "Aspirin",
			Condition:      "headache",
			Effectiveness:  "Highly Effective",
			SideEffects:    "Mild Side Effects",
			BenefitsReview: "worked quickly",
			HasRating:      true,
			Rating:         8,
		},
		{
			Drug:          "aspirin",
			Condition:     "headache",
			Effectiveness: "Ineffective",
			SideEffects:   "Severe Side Effects",
			HasRating:     true,
			Rating:        2,
		},
	}

	idx, err := Build(records, testLogger())
	require.NoError(t, err)

	// First occurrence wins for drug info.
	info, ok := idx.DrugInfo("ASPIRIN")
	require.True(t, ok)
	assert.Equal(t, "Highly Effective", info.Effectiveness)
	assert.Equal(t, "worked quickly", info.BenefitsReview)

	_, ok = idx.DrugInfo("nonexistent")
	assert.False(t, ok)
}

func TestIndex_TrainingData(t *testing.T) {
	records := []domain.ReviewRecord{
		record("aspirin", "headache", "Highly Effective", "No Side Effects", 9),
		record("placebix", "headache", "Ineffective", "No Side Effects", 2),
	}

	idx, err := Build(records, testLogger())
	require.NoError(t, err)

	features, labels := idx.TrainingData()
	require.Len(t, features, 2)
	require.Len(t, labels, 2)

	// Deterministic order: sorted by condition then drug name.
	assert.Equal(t, []float64{9, 5, 1, 1}, features[0])
	assert.Equal(t, 1, labels[0])
	assert.Equal(t, []float64{2, 1, 1, 1}, features[1])
	assert.Equal(t, 0, labels[1])
}
