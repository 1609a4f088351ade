package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lorasim/internal/admin"
	"lorasim/internal/config"
	"lorasim/internal/metrics"
	"lorasim/internal/sim"
	"lorasim/internal/trace"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the LoRaWAN network simulation and report delivery metrics",
	RunE:  runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.Int("devices", 0, "Number of end devices (overrides config)")
	f.Int("gateways", 0, "Number of gateways (overrides config)")
	f.Duration("app-period", 0, "Application packet period (overrides config)")
	f.Duration("duration", 0, "Simulated stop time (overrides config)")
	f.Int64("seed", 0, "Random seed (overrides config)")
	f.Float64("loss", 0, "Channel loss probability (overrides config)")
	f.Float64("pace", 0, "Simulated seconds per wall-clock second, 0 runs unpaced (overrides config)")
	f.String("output-folder", "", "Write report.json, summary.csv and delays.csv to this folder")
	f.String("trace-file", "", "Record every tx/rx event to this JSONL file")
	f.String("admin-addr", "", "Serve the live admin view on this address, e.g. :8080")
	f.Bool("tui", false, "Show the interactive terminal UI while running")
	f.Bool("print-only", false, "Skip GreptimeDB even if GREPTIMEDB_ENDPOINT is set")
}

// applyOverrides copies explicitly set flags or LORASIM_* env vars onto cfg.
func applyOverrides(cfg *config.SimulationConfig) {
	if v.IsSet("devices") {
		cfg.Scenario.Devices = v.GetInt("devices")
	}
	if v.IsSet("gateways") {
		cfg.Scenario.Gateways = v.GetInt("gateways")
	}
	if v.IsSet("app-period") {
		cfg.Scenario.AppPeriod = v.GetDuration("app-period")
	}
	if v.IsSet("duration") {
		cfg.Scenario.Duration = v.GetDuration("duration")
	}
	if v.IsSet("seed") {
		cfg.Scenario.Seed = v.GetInt64("seed")
	}
	if v.IsSet("loss") {
		cfg.Channel.LossProbability = v.GetFloat64("loss")
	}
	if v.IsSet("pace") {
		cfg.Output.Pace = v.GetFloat64("pace")
	}
	if v.IsSet("output-folder") {
		cfg.Output.Folder = v.GetString("output-folder")
	}
}

func loadConfig() (*config.SimulationConfig, error) {
	cfg, err := config.Load(v.GetString("config"), v.GetString("schema"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
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

	runID := uuid.New().String()
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

	simulator := sim.NewSimulator(cfg)
	opts := []trace.Option{trace.WithLogger(log)}
	var rec *trace.FileRecorder
	if path := v.GetString("trace-file"); path != "" {
		if rec, err = trace.NewFileRecorder(path); err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		opts = append(opts, trace.WithRecorder(rec))
	}
	if out.tui != nil {
		opts = append(opts, trace.WithObserver(out.tui))
	}
	adapter := trace.NewAdapter(runID, simulator.Clock(), collector, opts...)
	simulator.TraceConnect(sim.Hooks{
		OnTransmission: func(p sim.Packet, sender uint32) { adapter.OnTransmission(p, sender) },
		OnReception:    func(p sim.Packet, receiver uint32) { adapter.OnReception(p, receiver) },
	})
	simulator.OnProgress(cfg.Output.ProgressInterval, func(now time.Duration) {
		p := collector.Progress()
		p.SimTime = now
		if err := out.writer.WriteProgress(p); err != nil {
			log.Warn("progress write failed", "error", err)
		}
	})

	if addr := v.GetString("admin-addr"); addr != "" {
		srv := admin.NewServer(runID, collector)
		go func() {
			if err := srv.Start(ctx, addr); err != nil {
				log.Error("admin server stopped", "error", err)
			}
		}()
	}

	runErr := simulator.Run(ctx)
	if rec != nil {
		if err := rec.Close(); err != nil {
			if runErr == nil {
				return fmt.Errorf("close trace file: %w", err)
			}
			log.Error("close trace file", "error", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("simulation aborted: %w", runErr)
	}

	return finish(out, collector.Summary(runID))
}

// finish emits the summary to every writer and, with the TUI, waits for the
// user to quit before printing the text report.
func finish(out *outputs, s metrics.Summary) error {
	if err := out.writer.WriteSummary(s); err != nil {
		return err
	}
	if out.tui == nil {
		return nil
	}
	if err := out.tui.Wait(); err != nil {
		return err
	}
	return out.text.WriteSummary(s)
}
