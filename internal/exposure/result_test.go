package exposure

import (
	"testing"

	"github.com/example/threat-exposure/internal/scoring"
	"github.com/example/threat-exposure/internal/threatmodel"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Result
	}{
		{name: "no threats", scores: nil, want: Result{Score: 0, ThreatCount: 0}},
		{name: "zero scores still count", scores: []float64{0, 0}, want: Result{Score: 0, ThreatCount: 2}},
		{name: "sum", scores: []float64{5, 0.5, 2}, want: Result{Score: 7.5, ThreatCount: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.scores); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestScoreModel(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultTable())

	doc := threatmodel.Document{
		"threats": []interface{}{
			map[string]interface{}{"severity": "High"},
			map[string]interface{}{"severity": "Low", "mitigation": "done"},
		},
	}
	if got := ScoreModel(doc, scorer); got != (Result{Score: 5.5, ThreatCount: 2}) {
		t.Fatalf("unexpected result: %+v", got)
	}

	nested := threatmodel.Document{
		"diagram": map[string]interface{}{
			"components": []interface{}{
				map[string]interface{}{"threats": []interface{}{
					map[string]interface{}{"threatType": "Critical", "remediation": "mTLS"},
				}},
				map[string]interface{}{"threats": []interface{}{
					map[string]interface{}{"likelihood": 3.0},
					map[string]interface{}{},
				}},
			},
		},
	}
	if got := ScoreModel(nested, scorer); got != (Result{Score: 9, ThreatCount: 3}) {
		t.Fatalf("unexpected nested result: %+v", got)
	}

	if got := ScoreModel(threatmodel.Document{"summary": "nothing"}, scorer); got != (Result{}) {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
