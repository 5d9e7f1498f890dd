// Package exposure aggregates threat scores per model and builds the
// exposure report written at the end of a run.
package exposure

import (
	"github.com/example/threat-exposure/internal/scoring"
	"github.com/example/threat-exposure/internal/threatmodel"
)

// Result is the exposure of a single model.
type Result struct {
	Score       float64 `json:"score"`
	ThreatCount int     `json:"threat_count"`
}

// Aggregate sums effective severities. ThreatCount is the number of scores
// regardless of their value.
func Aggregate(scores []float64) Result {
	var total float64
	for _, score := range scores {
		total += score
	}
	return Result{Score: total, ThreatCount: len(scores)}
}

// ScoreModel extracts the threats of doc and aggregates their scores.
func ScoreModel(doc threatmodel.Document, scorer scoring.Scorer) Result {
	threats := threatmodel.Extract(doc)
	scores := make([]float64, 0, len(threats))
	for _, threat := range threats {
		scores = append(scores, scorer.Score(threat))
	}
	return Aggregate(scores)
}
