// Report writers emitting the run summary and mid-run progress
package report

import (
	"strconv"

	"lorasim/internal/metrics"
)

// Writer emits the final summary of a run.
type Writer interface {
	WriteSummary(metrics.Summary) error
}

// ProgressWriter optionally receives mid-run progress snapshots.
type ProgressWriter interface {
	WriteProgress(metrics.Progress) error
}

// formatFloat prints six significant digits, the way iostreams print doubles.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
