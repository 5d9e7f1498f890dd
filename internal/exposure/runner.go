package exposure

import (
	"context"
	"errors"

	"github.com/example/threat-exposure/internal/scoring"
	"github.com/example/threat-exposure/internal/threatmodel"
)

// ErrLoadFailures is returned by callers that treat any skipped model as a
// failed run.
var ErrLoadFailures = errors.New("one or more models failed to load")

// Observer receives progress while a run is in flight. An error returned by
// any method aborts the run.
type Observer interface {
	PatternFailed(pattern string, err error) error
	ModelFailed(path string, err error) error
	ModelScored(path string, result Result) error
}

// LoadFunc reads one model document.
type LoadFunc func(path string) (threatmodel.Document, error)

// Summary counts what happened during a run.
type Summary struct {
	Patterns int `json:"patterns"`
	Scored   int `json:"scored"`
	Failed   int `json:"failed"`
	Replaced int `json:"replaced"`
}

// Runner drives the load, extract, score and aggregate steps for every
// model matched by a list of patterns, one file at a time.
type Runner struct {
	Scorer   scoring.Scorer
	Load     LoadFunc
	Observer Observer
}

// NewRunner returns a runner using the default severity table and loader.
func NewRunner(observer Observer) *Runner {
	return &Runner{
		Scorer:   scoring.NewScorer(scoring.DefaultTable()),
		Load:     threatmodel.Load,
		Observer: observer,
	}
}

// Run processes patterns in order and each pattern's matches in sorted
// order. Paths matched more than once are processed every time and the last
// result wins. Models that fail to load are reported and skipped.
func (r *Runner) Run(ctx context.Context, patterns []string) (*Report, Summary, error) {
	report := NewReport()
	var summary Summary

	load := r.Load
	if load == nil {
		load = threatmodel.Load
	}
	observer := r.Observer
	if observer == nil {
		observer = discardObserver{}
	}

	for _, pattern := range patterns {
		summary.Patterns++

		paths, err := ExpandPattern(pattern)
		if err != nil {
			if err := observer.PatternFailed(pattern, err); err != nil {
				return report, summary, err
			}
			continue
		}

		for _, path := range paths {
			select {
			case <-ctx.Done():
				return report, summary, ctx.Err()
			default:
			}

			doc, err := load(path)
			if err != nil {
				summary.Failed++
				if err := observer.ModelFailed(path, err); err != nil {
					return report, summary, err
				}
				continue
			}

			result := ScoreModel(doc, r.Scorer)
			if report.Set(path, result) {
				summary.Replaced++
			}
			summary.Scored++

			if err := observer.ModelScored(path, result); err != nil {
				return report, summary, err
			}
		}
	}

	return report, summary, nil
}

type discardObserver struct{}

func (discardObserver) PatternFailed(string, error) error { return nil }
func (discardObserver) ModelFailed(string, error) error   { return nil }
func (discardObserver) ModelScored(string, Result) error  { return nil }
