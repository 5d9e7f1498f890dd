package scoring

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/threat-exposure/internal/threatmodel"
)

// Field names probed on each threat, in precedence order.
var (
	IndicatorFields  = []string{"severity", "threatType", "likelihood"}
	MitigationFields = []string{"mitigation", "remediation"}
)

// Assessment explains how a single threat was scored.
type Assessment struct {
	IndicatorField string      `json:"indicatorField,omitempty"`
	Indicator      interface{} `json:"indicator,omitempty"`
	Base           float64     `json:"base"`
	Mitigated      bool        `json:"mitigated"`
	Effective      float64     `json:"effective"`
}

// Scorer computes effective severities against a fixed table.
type Scorer struct {
	Table SeverityTable
}

// NewScorer returns a scorer backed by table.
func NewScorer(table SeverityTable) Scorer {
	return Scorer{Table: table}
}

// Score returns the effective severity of threat. It never fails; malformed
// fields fall back to DefaultBase.
func (s Scorer) Score(threat threatmodel.Threat) float64 {
	return s.Assess(threat).Effective
}

// Assess scores threat and records which fields decided the result.
func (s Scorer) Assess(threat threatmodel.Threat) Assessment {
	var a Assessment

	field, indicator, found := firstPresent(threat, IndicatorFields)
	if found {
		a.IndicatorField = field
		a.Indicator = indicator
	}
	a.Base = s.base(indicator, found)

	if note, ok := firstText(threat, MitigationFields); ok {
		a.Mitigated = strings.TrimSpace(note) != ""
	}

	a.Effective = a.Base
	if a.Mitigated {
		a.Effective = a.Base * MitigationFactor
	}
	return a
}

func (s Scorer) base(indicator interface{}, found bool) float64 {
	if !found {
		return DefaultBase
	}

	if label, ok := indicator.(string); ok {
		if base, ok := s.Table.Lookup(normalizeLabel(label)); ok {
			return base
		}
		return DefaultBase
	}

	if base, ok := toInteger(indicator); ok {
		return base
	}
	return DefaultBase
}

// firstPresent returns the first field that exists with a non-null value.
func firstPresent(threat threatmodel.Threat, fields []string) (string, interface{}, bool) {
	for _, field := range fields {
		if value, ok := threat[field]; ok && value != nil {
			return field, value, true
		}
	}
	return "", nil, false
}

// firstText returns the first field holding a non-empty string.
func firstText(threat threatmodel.Threat, fields []string) (string, bool) {
	for _, field := range fields {
		if value, ok := threat[field].(string); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

// normalizeLabel upper-cases the first rune and lower-cases the rest.
func normalizeLabel(label string) string {
	first, size := utf8.DecodeRuneInString(label)
	if size == 0 {
		return label
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(label[size:])
}

// toInteger truncates numeric indicators toward zero. Negative and
// non-finite values are rejected.
func toInteger(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < 0 {
		return 0, false
	}
	// Abs folds -0 from values like -0.5 into 0.
	return math.Abs(f), true
}
