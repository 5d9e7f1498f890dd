package cli

import (
	"fmt"
	"io"

	"github.com/example/threat-exposure/internal/config"
	"github.com/example/threat-exposure/internal/events"
	"github.com/example/threat-exposure/internal/exposure"
	"github.com/example/threat-exposure/internal/scoring"
	"github.com/example/threat-exposure/internal/threatmodel"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var logFormat string

	cmd := &cobra.Command{
		Use:   "score <model>",
		Short: "Show how each threat in a single model is scored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := threatmodel.Load(path)
			if err != nil {
				return err
			}

			scorer := scoring.NewScorer(scoring.DefaultTable())
			threats := threatmodel.Extract(doc)
			assessments := make([]scoring.Assessment, 0, len(threats))
			scores := make([]float64, 0, len(threats))
			for _, threat := range threats {
				a := scorer.Assess(threat)
				assessments = append(assessments, a)
				scores = append(scores, a.Effective)
			}
			total := exposure.Aggregate(scores)

			switch logFormat {
			case config.LogFormatJSON:
				return emitAssessments(cmd.OutOrStdout(), path, threats, assessments, total)
			case config.LogFormatText:
				return printAssessments(cmd.OutOrStdout(), path, threats, assessments, total)
			default:
				return fmt.Errorf("unsupported log format %s", logFormat)
			}
		},
	}

	cmd.Flags().StringVar(&logFormat, "log-format", config.LogFormatText, "Output: text or json (NDJSON events)")

	return cmd
}

func threatTitle(threat threatmodel.Threat) string {
	if title, ok := threat["title"].(string); ok {
		return title
	}
	return ""
}

func printAssessments(w io.Writer, path string, threats []threatmodel.Threat, assessments []scoring.Assessment, total exposure.Result) error {
	if _, err := fmt.Fprintf(w, "Model: %s\n", path); err != nil {
		return err
	}

	if len(assessments) > 0 {
		fmt.Fprintf(w, "  %-4s %-12s %-14s %6s %-9s %9s  %s\n", "#", "FIELD", "INDICATOR", "BASE", "MITIGATED", "EFFECTIVE", "TITLE")
	}
	for i, a := range assessments {
		field := a.IndicatorField
		if field == "" {
			field = "-"
		}
		indicator := "-"
		if a.Indicator != nil {
			indicator = fmt.Sprint(a.Indicator)
		}
		mitigated := "no"
		if a.Mitigated {
			mitigated = "yes"
		}
		fmt.Fprintf(w, "  %-4d %-12s %-14s %6.2f %-9s %9.2f  %s\n", i+1, field, indicator, a.Base, mitigated, a.Effective, threatTitle(threats[i]))
	}

	_, err := fmt.Fprintf(w, "Total: score=%.2f, threats=%d\n", total.Score, total.ThreatCount)
	return err
}

func emitAssessments(w io.Writer, path string, threats []threatmodel.Threat, assessments []scoring.Assessment, total exposure.Result) error {
	emitter := events.NewEmitter(w)
	for i, a := range assessments {
		fields := map[string]interface{}{
			"path":      path,
			"index":     i,
			"base":      a.Base,
			"mitigated": a.Mitigated,
			"effective": a.Effective,
		}
		if a.IndicatorField != "" {
			fields["indicatorField"] = a.IndicatorField
			fields["indicator"] = fmt.Sprint(a.Indicator)
		}
		if title := threatTitle(threats[i]); title != "" {
			fields["title"] = title
		}
		if err := emitter.Emit(events.Event{Type: events.TypeThreatAssessed, Fields: fields}); err != nil {
			return err
		}
	}

	return emitter.Emit(events.Event{
		Type:   events.TypeModelScored,
		Fields: map[string]interface{}{"path": path, "score": total.Score, "threatCount": total.ThreatCount},
	})
}
