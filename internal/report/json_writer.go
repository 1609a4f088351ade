package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"time"

	"lorasim/internal/metrics"
)

// JSONWriter writes report.json into an output folder.
type JSONWriter struct {
	dir string
	now func() time.Time
}

// NewJSONWriter creates a JSONWriter for dir.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{dir: dir, now: time.Now}
}

type packetDelay struct {
	Packet int     `json:"packet"`
	DelayS float64 `json:"delay_s"`
}

type jsonReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Sent        int64     `json:"sent"`
	Received    int64     `json:"received"`
	Lost        int64     `json:"lost"`
	// DeliveryRatio is null when nothing was sent.
	DeliveryRatio *float64           `json:"delivery_ratio"`
	AverageDelayS float64            `json:"average_delay_s"`
	Anomalies     metrics.Anomalies  `json:"anomalies"`
	Unresolved    []metrics.PacketID `json:"unresolved"`
	Delays        []packetDelay      `json:"delays"`
}

// WriteSummary writes s to <dir>/report.json.
func (w *JSONWriter) WriteSummary(s metrics.Summary) error {
	rep := jsonReport{
		RunID:         s.RunID,
		GeneratedAt:   w.now().UTC(),
		Sent:          s.Sent,
		Received:      s.Received,
		Lost:          s.Lost,
		AverageDelayS: s.AverageDelay.Seconds(),
		Anomalies:     s.Anomalies,
		Unresolved:    s.Unresolved,
		Delays:        make([]packetDelay, 0, len(s.Delays)),
	}
	if rep.Unresolved == nil {
		rep.Unresolved = []metrics.PacketID{}
	}
	if !math.IsNaN(s.DeliveryRatio) {
		r := s.DeliveryRatio
		rep.DeliveryRatio = &r
	}
	for i, sec := range metrics.PerPacket(s.Delays) {
		rep.Delays = append(rep.Delays, packetDelay{Packet: i, DelayS: sec})
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(w.dir, "report.json"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
