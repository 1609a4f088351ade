package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lorasim/internal/logging"
	"lorasim/internal/report"
)

// v holds flag and environment settings; LORASIM_<FLAG> overrides a flag default.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:          "lorasim",
	Short:        "LoRaWAN packet delivery and delay metrics",
	Long:         "lorasim correlates packet transmissions with receptions and reports delivery ratio and per-packet delay.",
	SilenceUsage: true,
	// Flags are bound per invocation since subcommands share flag names.
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return v.BindPFlags(cmd.Flags())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "", "Path to scenario configuration YAML")
	rootCmd.PersistentFlags().String("schema", "", "Path to CUE schema file (defaults to the embedded schema)")

	v.SetEnvPrefix("LORASIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.BindEnv("greptimedb.endpoint", "GREPTIMEDB_ENDPOINT")
	v.BindEnv("greptimedb.database", "GREPTIMEDB_DATABASE")
	v.BindEnv("greptimedb.summary_table", "GREPTIMEDB_SUMMARY_TABLE")
	v.BindEnv("greptimedb.delay_table", "GREPTIMEDB_DELAY_TABLE")
	v.BindEnv("greptimedb.progress_table", "GREPTIMEDB_PROGRESS_TABLE")
	v.SetDefault("greptimedb.database", "public")
	tables := report.DefaultTables()
	v.SetDefault("greptimedb.summary_table", tables.Summary)
	v.SetDefault("greptimedb.delay_table", tables.Delays)
	v.SetDefault("greptimedb.progress_table", tables.Progress)

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// commandContext builds the logger from --log-level and stores it in ctx.
func commandContext(ctx context.Context) (context.Context, *slog.Logger, error) {
	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(level)
	slog.SetDefault(log)
	return logging.NewContext(ctx, log), log, nil
}
