package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"lorasim/internal/config"
	"lorasim/internal/report"
	"lorasim/internal/tui"
)

type outputOptions struct {
	printOnly bool
	tui       bool
	stdout    io.Writer
}

// outputs bundles the writers of one run.
type outputs struct {
	writer *report.MultiWriter
	text   *report.TextWriter
	tui    *tui.Writer
}

// newOutputs sets up report writers based on flags, config and env vars.
// The text report goes to STDOUT unless the TUI owns the terminal, in which
// case it is printed once the TUI exits. Callers must Close the result.
func newOutputs(cfg *config.SimulationConfig, runID string, opts outputOptions) (*outputs, error) {
	out := &outputs{text: report.NewTextWriter(opts.stdout)}
	var ws []report.Writer

	if dir := cfg.Output.Folder; dir != "" {
		ws = append(ws, report.NewJSONWriter(dir), report.NewCSVWriter(dir))
	}

	gw, err := greptimeWriter(runID, opts.printOnly)
	if err != nil {
		return nil, err
	}
	if gw != nil {
		ws = append(ws, gw)
	}

	// The TUI starts last so no setup error can leave the terminal in raw mode.
	if opts.tui && term.IsTerminal(int(os.Stdout.Fd())) {
		out.tui = tui.NewWriter(runID)
		ws = append(ws, out.tui)
	} else {
		ws = append(ws, out.text)
	}

	out.writer = report.NewMultiWriter(ws...)
	return out, nil
}

// Close stops the TUI, if any, and restores the terminal.
func (o *outputs) Close() error {
	if o.tui == nil {
		return nil
	}
	return o.tui.Close()
}

// runContext returns a context cancelled when the TUI exits, so quitting the
// TUI also stops the run.
func (o *outputs) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.tui == nil {
		return context.WithCancel(ctx)
	}
	return cancelOnExit(ctx, o.tui.Exited())
}

func cancelOnExit(ctx context.Context, exited <-chan struct{}) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-exited:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// greptimeWriter returns nil in print-only mode or when no endpoint is configured.
func greptimeWriter(runID string, printOnly bool) (report.Writer, error) {
	endpoint := v.GetString("greptimedb.endpoint")
	if printOnly || endpoint == "" {
		return nil, nil
	}
	tables := report.Tables{
		Summary:  v.GetString("greptimedb.summary_table"),
		Delays:   v.GetString("greptimedb.delay_table"),
		Progress: v.GetString("greptimedb.progress_table"),
	}
	return report.NewGreptimeDBWriter(endpoint, v.GetString("greptimedb.database"), runID, tables)
}
