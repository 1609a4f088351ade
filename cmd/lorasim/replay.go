package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lorasim/internal/metrics"
	"lorasim/internal/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Correlate a recorded JSONL trace and report delivery metrics",
	RunE:  runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.String("input", "", "JSONL trace file written by simulate --trace-file")
	f.Float64("speed", 0, "Replay speed relative to simulated time, 0 replays without delay")
	f.String("run-id", "", "Run id to report under (defaults to a new id)")
	f.String("output-folder", "", "Write report.json, summary.csv and delays.csv to this folder")
	f.Bool("tui", false, "Show the interactive terminal UI while replaying")
	f.Bool("print-only", false, "Skip GreptimeDB even if GREPTIMEDB_ENDPOINT is set")
	replayCmd.MarkFlagRequired("input")
}

func runReplay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, log, err := commandContext(ctx)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runID := v.GetString("run-id")
	if runID == "" {
		runID = uuid.New().String()
	}
	log = log.With("run_id", runID)
	collector := metrics.NewCollector(log)

	out, err := newOutputs(cfg, runID, outputOptions{
		printOnly: v.GetBool("print-only"),
		tui:       v.GetBool("tui"),
		stdout:    cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer out.Close()
	ctx, cancel := out.runContext(ctx)
	defer cancel()

	clock := &trace.ManualClock{}
	opts := []trace.Option{trace.WithLogger(log)}
	if out.tui != nil {
		opts = append(opts, trace.WithObserver(out.tui))
	}
	adapter := trace.NewAdapter(runID, clock, collector, opts...)

	input := v.GetString("input")
	n, err := trace.ReplayFile(ctx, input, clock, adapter, v.GetFloat64("speed"))
	if err != nil {
		return fmt.Errorf("replay %s: %w", input, err)
	}
	log.Info("replay finished", "events", n, "sim_time", clock.Now())

	if err := out.writer.WriteProgress(collector.Progress()); err != nil {
		log.Warn("progress write failed", "error", err)
	}
	return finish(out, collector.Summary(runID))
}
