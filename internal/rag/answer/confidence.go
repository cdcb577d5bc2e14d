package answer

import (
	"math"

	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
)

// Similarity converts a cosine distance into a score in [0,1].
func Similarity(distance float64) float64 {
	return math.Max(0, 1-distance)
}

// Confidence is the mean similarity of the hits, clamped to [0,1] and rounded to three
// decimals. No hits means 0.
func Confidence(hits []corpusModel.RetrievalHit) float64 {
	if len(hits) == 0 {
		return 0
	}
	var sum float64
	for _, h := range hits {
		sum += Similarity(h.Distance)
	}
	mean := sum / float64(len(hits))
	return Round3(math.Min(1, math.Max(0, mean)))
}

func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
