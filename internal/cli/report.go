package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/example/threat-exposure/internal/events"
	"github.com/example/threat-exposure/internal/exposure"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var inputPath string
	var summaryPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate aggregate stats from an exposure report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			report, err := exposure.ReadReport(inputPath)
			if err != nil {
				return err
			}

			stats := reportStats(report)
			stats["input"] = inputPath
			stats["generatedAt"] = time.Now().UTC().Format(time.RFC3339)

			emitter := events.NewEmitter(cmd.OutOrStdout())
			if err := emitter.Emit(events.Event{Type: events.TypeReportSummary, Message: "Report generated", Fields: stats}); err != nil {
				return err
			}

			if summaryPath != "" {
				if err := writeReportSummary(summaryPath, stats); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Summary written to %s\n", summaryPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Path to an exposure report written by a previous run")
	cmd.Flags().StringVar(&summaryPath, "summary-file", "", "Optional path to store summary JSON")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

// reportStats totals a report. The highest-exposure model is the first one
// in path order among those sharing the top score.
func reportStats(report *exposure.Report) map[string]interface{} {
	var totalScore float64
	var totalThreats int
	var topPath string
	var topScore float64

	for _, path := range report.Paths() {
		result, _ := report.Get(path)
		totalScore += result.Score
		totalThreats += result.ThreatCount
		if topPath == "" || result.Score > topScore {
			topPath = path
			topScore = result.Score
		}
	}

	stats := map[string]interface{}{
		"models":       report.Len(),
		"totalScore":   totalScore,
		"totalThreats": totalThreats,
		"averageScore": 0.0,
	}
	if report.Len() > 0 {
		stats["averageScore"] = totalScore / float64(report.Len())
		stats["highestExposure"] = map[string]interface{}{"path": topPath, "score": topScore}
	}
	return stats
}

func writeReportSummary(path string, stats map[string]interface{}) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
