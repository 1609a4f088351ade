package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"lorasim/internal/metrics"
)

// CSVWriter writes summary.csv (metric,value) and delays.csv (packet,delay_s)
// into an output folder.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSVWriter for dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteSummary writes both CSV files.
func (w *CSVWriter) WriteSummary(s metrics.Summary) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	summary := [][]string{
		{"metric", "value"},
		{"run_id", s.RunID},
		{"sent", strconv.FormatInt(s.Sent, 10)},
		{"received", strconv.FormatInt(s.Received, 10)},
		{"lost", strconv.FormatInt(s.Lost, 10)},
		{"delivery_ratio", formatFloat(s.DeliveryRatio)},
		{"average_delay_s", formatFloat(s.AverageDelay.Seconds())},
		{"duplicates", strconv.FormatInt(s.Anomalies.Duplicates, 10)},
		{"unmatched", strconv.FormatInt(s.Anomalies.Unmatched, 10)},
		{"negative_delays", strconv.FormatInt(s.Anomalies.NegativeDelays, 10)},
		{"unresolved", strconv.Itoa(len(s.Unresolved))},
	}
	if err := writeCSV(filepath.Join(w.dir, "summary.csv"), summary); err != nil {
		return err
	}

	delays := make([][]string, 0, len(s.Delays)+1)
	delays = append(delays, []string{"packet", "delay_s"})
	for i, sec := range metrics.PerPacket(s.Delays) {
		delays = append(delays, []string{strconv.Itoa(i), strconv.FormatFloat(sec, 'f', 9, 64)})
	}
	return writeCSV(filepath.Join(w.dir, "delays.csv"), delays)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
