package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/example/threat-exposure/internal/config"
	"github.com/example/threat-exposure/internal/events"
	"github.com/example/threat-exposure/internal/exposure"
	"github.com/example/threat-exposure/internal/threatmodel"
	"github.com/spf13/cobra"
)

// progress receives run callbacks and announces the written report.
type progress interface {
	exposure.Observer
	Start(cfg config.RuntimeConfig) error
	Finish(output string, summary exposure.Summary) error
}

func newProgress(cmd *cobra.Command, format string) progress {
	if format == config.LogFormatJSON {
		return &eventProgress{emitter: events.NewEmitter(cmd.OutOrStdout())}
	}
	return &textProgress{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}

func runAnalysis(cmd *cobra.Command, cfg config.RuntimeConfig) error {
	prog := newProgress(cmd, cfg.LogFormat)
	if err := prog.Start(cfg); err != nil {
		return err
	}

	report, summary, err := exposure.NewRunner(prog).Run(cmd.Context(), cfg.Models)
	if err != nil {
		return err
	}

	if err := report.WriteFile(cfg.Output); err != nil {
		return err
	}

	if err := prog.Finish(cfg.Output, summary); err != nil {
		return err
	}

	if cfg.FailOnLoadError && summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", exposure.ErrLoadFailures, summary.Failed, summary.Failed+summary.Scored)
	}

	return nil
}

// loadCause strips the LoadError wrapper so console lines do not repeat the path.
func loadCause(err error) error {
	var loadErr *threatmodel.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Err
	}
	return err
}

type textProgress struct {
	out    io.Writer
	errOut io.Writer
}

func (p *textProgress) Start(config.RuntimeConfig) error { return nil }

func (p *textProgress) PatternFailed(pattern string, err error) error {
	_, werr := fmt.Fprintf(p.errOut, "Skipping pattern %s: %v\n", pattern, err)
	return werr
}

func (p *textProgress) ModelFailed(path string, err error) error {
	_, werr := fmt.Fprintf(p.out, "Failed to load %s: %v\n", path, loadCause(err))
	return werr
}

func (p *textProgress) ModelScored(path string, result exposure.Result) error {
	_, err := fmt.Fprintf(p.out, "Model: %s -> score=%.2f, threats=%d\n", path, result.Score, result.ThreatCount)
	return err
}

func (p *textProgress) Finish(output string, _ exposure.Summary) error {
	_, err := fmt.Fprintf(p.out, "Wrote exposure summary to %s\n", output)
	return err
}

type eventProgress struct {
	emitter *events.Emitter
}

func (p *eventProgress) Start(cfg config.RuntimeConfig) error {
	return p.emitter.Emit(events.Event{
		Type:    events.TypeRunStart,
		Message: "Starting exposure analysis",
		Fields:  map[string]interface{}{"patterns": cfg.Models, "output": cfg.Output},
	})
}

func (p *eventProgress) PatternFailed(pattern string, err error) error {
	return p.emitter.Emit(events.Event{
		Type:   events.TypePatternFailed,
		Fields: map[string]interface{}{"pattern": pattern, "error": err.Error()},
	})
}

func (p *eventProgress) ModelFailed(path string, err error) error {
	return p.emitter.Emit(events.Event{
		Type:   events.TypeModelFailed,
		Fields: map[string]interface{}{"path": path, "error": loadCause(err).Error()},
	})
}

func (p *eventProgress) ModelScored(path string, result exposure.Result) error {
	return p.emitter.Emit(events.Event{
		Type:   events.TypeModelScored,
		Fields: map[string]interface{}{"path": path, "score": result.Score, "threatCount": result.ThreatCount},
	})
}

func (p *eventProgress) Finish(output string, summary exposure.Summary) error {
	if err := p.emitter.Emit(events.Event{
		Type:   events.TypeReportWritten,
		Fields: map[string]interface{}{"path": output},
	}); err != nil {
		return err
	}

	return p.emitter.Emit(events.Event{
		Type:    events.TypeRunFinished,
		Message: "Analysis complete",
		Fields: map[string]interface{}{
			"patterns": summary.Patterns,
			"scored":   summary.Scored,
			"failed":   summary.Failed,
			"replaced": summary.Replaced,
		},
	})
}
