package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lorasim/internal/dashboard"
	"lorasim/internal/report"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the GreptimeDB tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, log, err := commandContext(cmd.Context())
		if err != nil {
			return err
		}
		outDir := v.GetString("out")
		data := dashboard.Data{
			Title: v.GetString("title"),
			Tables: report.Tables{
				Summary:  v.GetString("greptimedb.summary_table"),
				Delays:   v.GetString("greptimedb.delay_table"),
				Progress: v.GetString("greptimedb.progress_table"),
			},
		}
		if err := dashboard.Render(outDir, data); err != nil {
			return fmt.Errorf("render dashboards: %w", err)
		}
		log.Info("dashboards written", "dir", outDir)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().String("out", "dashboards", "Output directory for rendered dashboards")
	dashboardCmd.Flags().String("title", "LoRaWAN delivery", "Dashboard title")
}
