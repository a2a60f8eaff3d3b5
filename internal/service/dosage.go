package service

// Dosage is currently a fixed placeholder; the age modifier adjusts
// frequency banding only, not the printed dose. A computed dose would
// need per-drug base dosages the dataset does not carry.
const standardDosage = "500mg"

// RecommendDosage derives dosage and frequency text from the patient's
// age and heart rate. Pure function; no error conditions.
func RecommendDosage(age, heartRate int) (dosage, frequency string) {
	switch {
	case age < 18:
		frequency = "Every 6-8 hours"
	case age > 65:
		frequency = "Every 8-12 hours"
	default:
		frequency = "Every 6 hours as needed"
	}

	if heartRate > 100 {
		frequency += " (monitor heart rate)"
	} else if heartRate < 60 {
		frequency += " (bradycardia noted)"
	}

	return standardDosage, frequency
}
