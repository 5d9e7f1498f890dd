// Package scoring turns individual threats into effective severity values.
package scoring

// DefaultBase is the base severity used when no indicator is found or the
// indicator cannot be interpreted.
const DefaultBase = 2.0

// MitigationFactor scales the base severity of a mitigated threat.
const MitigationFactor = 0.5

// SeverityTable maps normalized severity labels to base scores.
// The zero value has no labels; every lookup misses.
type SeverityTable struct {
	levels map[string]float64
}

// NewSeverityTable copies levels into an immutable table.
func NewSeverityTable(levels map[string]float64) SeverityTable {
	copied := make(map[string]float64, len(levels))
	for label, base := range levels {
		copied[label] = base
	}
	return SeverityTable{levels: copied}
}

// DefaultTable returns the fixed label table used by the analyzer.
func DefaultTable() SeverityTable {
	return NewSeverityTable(map[string]float64{
		"Critical": 8,
		"High":     5,
		"Medium":   3,
		"Low":      1,
	})
}

// Lookup returns the base score for an already normalized label.
func (t SeverityTable) Lookup(label string) (float64, bool) {
	base, ok := t.levels[label]
	return base, ok
}

// Len reports how many labels the table knows.
func (t SeverityTable) Len() int {
	return len(t.levels)
}
