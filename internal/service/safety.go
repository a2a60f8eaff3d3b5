package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/domain"
)

// interactionPairs maps a known medication to the substances and
// classes it conflicts with. Checked in both directions: the candidate
// drug may be the conflicting substance of a current medication, or a
// known medication whose conflicts appear in the current-medications
// text.
var interactionPairs = map[string][]string{
	"warfarin":    {"aspirin", "ibuprofen", "naproxen"},
	"metformin":   {"contrast dye"},
	"lisinopril":  {"potassium", "nsaids"},
	"simvastatin": {"grapefruit", "erythromycin"},
	"sertraline":  {"tramadol", "triptans"},
	"omeprazole":  {"clopidogrel"},
}

// interactionMeds holds the sorted medication keys so screening output
// order is deterministic.
var interactionMeds = sortedKeys(interactionPairs)

// SafetyScreener checks candidate drugs against known interaction
// pairs and patient allergy strings.
type SafetyScreener struct {
	logger *logrus.Logger
}

// NewSafetyScreener creates a safety screener.
func NewSafetyScreener(logger *logrus.Logger) *SafetyScreener {
	return &SafetyScreener{logger: logger}
}

// Check collects all interaction and allergy matches for one candidate
// drug. Matches are never deduplicated; an empty result is the normal
// outcome, not an error.
func (s *SafetyScreener) Check(drug, currentMedications string, allergies []string) []domain.DrugInteraction {
	var interactions []domain.DrugInteraction
	medsText := strings.ToLower(currentMedications)

	for _, med := range interactionMeds {
		conflicts := interactionPairs[med]

		if strings.Contains(medsText, med) && containsString(conflicts, drug) {
			interactions = append(interactions, domain.DrugInteraction{
				Drug1:       med,
				Drug2:       drug,
				Severity:    domain.SeverityModerate,
				Description: fmt.Sprintf("%s may interact with %s. Consult physician.", titleCase(drug), med),
			})
		}

		if drug == med {
			for _, conflict := range conflicts {
				if strings.Contains(medsText, conflict) {
					interactions = append(interactions, domain.DrugInteraction{
						Drug1:       drug,
						Drug2:       conflict,
						Severity:    domain.SeverityHigh,
						Description: fmt.Sprintf("%s has known interaction with %s. Use caution.", titleCase(drug), conflict),
					})
				}
			}
		}
	}

	for _, allergy := range allergies {
		allergyLower := strings.ToLower(allergy)
		if allergyLower == "" {
			continue
		}
		if strings.Contains(drug, allergyLower) || strings.Contains(allergyLower, drug) {
			interactions = append(interactions, domain.DrugInteraction{
				Drug1:       drug,
				Drug2:       allergy,
				Severity:    domain.SeverityHigh,
				Description: fmt.Sprintf("Patient has documented allergy to %s. AVOID %s.", allergy, titleCase(drug)),
			})
		}
	}

	if len(interactions) > 0 {
		s.logger.WithFields(logrus.Fields{
			"drug":         drug,
			"interactions": len(interactions),
		}).Debug("Safety screening found conflicts")
	}

	return interactions
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
