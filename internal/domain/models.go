package domain

// PatientProfile holds the request-scoped patient inputs for a prediction.
// The core treats it as immutable; the caller is responsible for shape
// validation.
type PatientProfile struct {
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	HeartRate          int      `json:"heart_rate"`
	BloodType          string   `json:"blood_type"`
	Allergies          []string `json:"allergies"`
	MedicalHistory     []string `json:"medical_history"`
	Symptoms           []string `json:"symptoms"`
	CurrentMedications string   `json:"current_medications"`
}

// DrugRecommendation is a single ranked recommendation in the response.
type DrugRecommendation struct {
	Name            string  `json:"name"`
	Confidence      float64 `json:"confidence"`
	Dosage          string  `json:"dosage"`
	Frequency       string  `json:"frequency"`
	Effectiveness   string  `json:"effectiveness"`
	SideEffectsRisk string  `json:"side_effects_risk"`
	ConditionMatch  string  `json:"condition_match"`
}

// Explanation is one human-readable contributing factor for the
// recommendation set. Influence is a percentage; the final list is
// renormalized so influences sum to ~100.
type Explanation struct {
	Feature   string  `json:"feature"`
	Influence float64 `json:"influence"`
	Direction string  `json:"direction"`
}

// Explanation directions.
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
)

// DrugInteraction is a detected drug/drug or drug/allergy conflict.
type DrugInteraction struct {
	Drug1       string `json:"drug1"`
	Drug2       string `json:"drug2"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Interaction severities.
const (
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
)

// PredictionResponse is the full result of a prediction request.
type PredictionResponse struct {
	Recommendations []DrugRecommendation `json:"recommendations"`
	Explanations    []Explanation        `json:"explanations"`
	Interactions    []DrugInteraction    `json:"interactions"`
}

// ReviewRecord is one raw historical drug review as produced by a
// record source, before indexing.
type ReviewRecord struct {
	Drug              string
	Condition         string
	Rating            float64
	HasRating         bool
	Effectiveness     string
	SideEffects       string
	BenefitsReview    string
	SideEffectsReview string
}

// DrugStats aggregates the review history for one (condition, drug)
// pair. Built once at index time and shared read-only afterwards.
type DrugStats struct {
	Ratings             []float64
	EffectivenessScores []float64
	SideEffectScores    []float64
}

// ReviewCount returns the number of reviews behind this aggregate.
func (s *DrugStats) ReviewCount() int {
	return len(s.Ratings)
}

// AvgRating returns the mean patient rating (1-10 scale).
func (s *DrugStats) AvgRating() float64 {
	return mean(s.Ratings)
}

// AvgEffectiveness returns the mean effectiveness ordinal (1-5 scale).
func (s *DrugStats) AvgEffectiveness() float64 {
	return mean(s.EffectivenessScores)
}

// AvgSideEffects returns the mean side-effect ordinal (1-5 scale).
func (s *DrugStats) AvgSideEffects() float64 {
	return mean(s.SideEffectScores)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// DrugInfo carries the descriptive labels and review snippets for a
// drug, keyed by its normalized name.
type DrugInfo struct {
	Effectiveness     string `json:"effectiveness"`
	SideEffects       string `json:"side_effects"`
	BenefitsReview    string `json:"benefits_review"`
	SideEffectsReview string `json:"side_effects_review"`
}

// ScoredCandidate is an ephemeral per-request scoring result for one
// candidate drug, carrying the aggregates its score was derived from.
type ScoredCandidate struct {
	Drug             string
	Score            float64
	AvgRating        float64
	AvgEffectiveness float64
	AvgSideEffects   float64
	ReviewCount      int
	Condition        string
}
