package embedding

import "math"

// Cosine returns the cosine similarity of two vectors clamped to [0, 1].
// Mismatched lengths or zero-norm vectors score 0. Negative similarity is
// floored at 0 since the scoring layer treats it as no relation.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, aSq, bSq float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		aSq += float64(a[i]) * float64(a[i])
		bSq += float64(b[i]) * float64(b[i])
	}
	if aSq == 0 || bSq == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(aSq) * math.Sqrt(bSq))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
