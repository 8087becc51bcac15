package scoring

// Classification labels, highest to lowest.
const (
	LabelExcellent = "Excellent Match"
	LabelStrong    = "Strong Match"
	LabelModerate  = "Moderate Match"
	LabelWeak      = "Weak Match"
	LabelPoor      = "Poor Match"
)

// Label thresholds on the 0-100 overall score, inclusive.
const (
	ThresholdExcellent = 85
	ThresholdStrong    = 70
	ThresholdModerate  = 55
	ThresholdWeak      = 40
)

// Classification pairs a match label with a hiring recommendation.
type Classification struct {
	Label          string `json:"label"`
	Recommendation string `json:"recommendation"`
}

// Classify maps an overall score to its label.
func Classify(overall float64) string {
	switch {
	case overall >= ThresholdExcellent:
		return LabelExcellent
	case overall >= ThresholdStrong:
		return LabelStrong
	case overall >= ThresholdModerate:
		return LabelModerate
	case overall >= ThresholdWeak:
		return LabelWeak
	default:
		return LabelPoor
	}
}

// Recommend produces the hiring recommendation. Low confidence overrides
// the score-based message entirely.
func Recommend(overall, confidence float64) string {
	if confidence < 0.5 {
		return "Insufficient data for strong recommendation - manual review suggested"
	}
	switch {
	case overall >= ThresholdExcellent:
		return "Highly Recommended - Strong candidate for interview"
	case overall >= ThresholdStrong:
		return "Recommended - Good candidate worth interviewing"
	case overall >= ThresholdModerate:
		return "Consider - May be suitable depending on other factors"
	default:
		return "Not Recommended - Poor match for this position"
	}
}

// NewClassification bundles label and recommendation for a scored result.
func NewClassification(overall, confidence float64) Classification {
	return Classification{
		Label:          Classify(overall),
		Recommendation: Recommend(overall, confidence),
	}
}
