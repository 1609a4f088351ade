package metrics

import (
	"math"
	"testing"
	"time"
)

func TestDeliveryRatioUndefinedWithoutTraffic(t *testing.T) {
	if r := DeliveryRatio(0, 0); !math.IsNaN(r) {
		t.Fatalf("ratio = %v, want NaN", r)
	}
	if r := DeliveryRatio(4, 3); r != 0.75 {
		t.Fatalf("ratio = %v, want 0.75", r)
	}
}

func TestAverageDelay(t *testing.T) {
	if d := AverageDelay(nil); d != 0 {
		t.Fatalf("empty average = %s, want 0", d)
	}
	d := AverageDelay([]time.Duration{200 * time.Millisecond, 300 * time.Millisecond})
	if d != 250*time.Millisecond {
		t.Fatalf("average = %s, want 250ms", d)
	}
}

func TestPerPacket(t *testing.T) {
	delays := []time.Duration{200 * time.Millisecond, 1500 * time.Millisecond, 3 * time.Second}
	var idx []int
	var secs []float64
	for i, s := range PerPacket(delays) {
		idx = append(idx, i)
		secs = append(secs, s)
	}
	if len(idx) != 3 || idx[0] != 1 || idx[2] != 3 {
		t.Fatalf("indices = %v, want 1-based", idx)
	}
	if secs[1] != 1.5 {
		t.Fatalf("second delay = %v, want 1.5", secs[1])
	}

	n := 0
	for range PerPacket(delays) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("early break not honoured")
	}
}

func TestReduceEmptyRun(t *testing.T) {
	s := Reduce("r", Counters{}, nil, nil, Anomalies{})
	if !math.IsNaN(s.DeliveryRatio) {
		t.Fatalf("ratio = %v, want NaN", s.DeliveryRatio)
	}
	if s.AverageDelay != 0 || s.Lost != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
