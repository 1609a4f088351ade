package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"lorasim/internal/metrics"
)

// TextWriter prints the summary in a fixed line format meant for scripted parsing:
//
//	Delivery: Sent: 3, Received: 2, Lost: 1, Delivery ratio: 0.666667
//	Average delay: 0.25 seconds
//	Anomalies: Duplicate: 0, Unmatched: 0, Negative delay: 0, Unresolved: 1
//	Packet delays:
//	Packet 1: 0.2 seconds
type TextWriter struct {
	out io.Writer
}

// NewTextWriter creates a TextWriter writing to out, or os.Stdout when out is nil.
func NewTextWriter(out io.Writer) *TextWriter {
	if out == nil {
		out = os.Stdout
	}
	return &TextWriter{out: out}
}

// WriteSummary prints s.
func (w *TextWriter) WriteSummary(s metrics.Summary) error {
	bw := bufio.NewWriter(w.out)
	fmt.Fprintf(bw, "Delivery: Sent: %d, Received: %d, Lost: %d, Delivery ratio: %s\n",
		s.Sent, s.Received, s.Lost, formatFloat(s.DeliveryRatio))
	fmt.Fprintf(bw, "Average delay: %s seconds\n", formatFloat(s.AverageDelay.Seconds()))
	fmt.Fprintf(bw, "Anomalies: Duplicate: %d, Unmatched: %d, Negative delay: %d, Unresolved: %d\n",
		s.Anomalies.Duplicates, s.Anomalies.Unmatched, s.Anomalies.NegativeDelays, len(s.Unresolved))
	fmt.Fprintln(bw, "Packet delays:")
	for i, sec := range metrics.PerPacket(s.Delays) {
		fmt.Fprintf(bw, "Packet %d: %s seconds\n", i, formatFloat(sec))
	}
	return bw.Flush()
}
