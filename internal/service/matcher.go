package service

import (
	"sort"
	"strings"
)

// symptomConditionMap maps normalized symptom/history terms to the
// condition keywords they indicate. Matching is a case-insensitive
// exact lookup against these keys; fuzzy matching happens later against
// the dataset conditions, not here.
var symptomConditionMap = map[string][]string{
	"fever":               {"infection", "flu", "cold", "virus"},
	"cough":               {"cold", "flu", "bronchitis", "asthma", "infection"},
	"headache":            {"migraine", "tension headache", "pain", "headache"},
	"fatigue":             {"depression", "chronic fatigue", "anemia"},
	"nausea":              {"nausea", "vomiting", "morning sickness", "motion sickness"},
	"dizziness":           {"vertigo", "dizziness", "hypertension"},
	"chest pain":          {"angina", "heart", "cardiac"},
	"shortness of breath": {"asthma", "copd", "bronchitis", "heart failure"},
	"joint pain":          {"arthritis", "pain", "inflammation"},
	"muscle aches":        {"pain", "fibromyalgia", "muscle"},
	"sore throat":         {"infection", "strep", "pharyngitis", "throat"},
	"runny nose":          {"cold", "allergy", "rhinitis", "sinusitis"},
	"diabetes":            {"diabetes", "blood sugar"},
	"hypertension":        {"hypertension", "high blood pressure", "blood pressure"},
	"asthma":              {"asthma", "breathing", "bronchial"},
	"heart disease":       {"heart", "cardiac", "cardiovascular"},
	"depression":          {"depression", "mood", "mental"},
	"anxiety":             {"anxiety", "panic", "stress"},
}

// defaultConditions keeps downstream scoring from starving when no
// input term matches the synonym table.
var defaultConditions = []string{"general", "pain", "infection"}

// MatchConditions returns the sorted set of condition keywords
// triggered by the patient's symptom and history terms. An empty
// result is a normal outcome, not an error; callers substitute
// DefaultConditions.
func MatchConditions(symptoms, medicalHistory []string) []string {
	matched := make(map[string]struct{})

	collect := func(terms []string) {
		for _, term := range terms {
			conditions, ok := symptomConditionMap[strings.ToLower(term)]
			if !ok {
				continue
			}
			for _, condition := range conditions {
				matched[condition] = struct{}{}
			}
		}
	}
	collect(symptoms)
	collect(medicalHistory)

	result := make([]string, 0, len(matched))
	for condition := range matched {
		result = append(result, condition)
	}
	sort.Strings(result)
	return result
}

// DefaultConditions returns a copy of the fallback condition set.
func DefaultConditions() []string {
	out := make([]string, len(defaultConditions))
	copy(out, defaultConditions)
	return out
}
