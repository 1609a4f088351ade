package metrics

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestAccumulatorCounts(t *testing.T) {
	a := NewAccumulator()
	a.OnSent()
	a.OnSent()
	if err := a.OnReceived(200 * time.Millisecond); err != nil {
		t.Fatalf("OnReceived: %v", err)
	}
	got := a.Snapshot()
	if got.Sent != 2 || got.Received != 1 {
		t.Fatalf("counters = %+v, want sent 2 received 1", got)
	}
	if !slices.Equal(a.Delays(), []time.Duration{200 * time.Millisecond}) {
		t.Fatalf("delays = %v", a.Delays())
	}
}

func TestAccumulatorSnapshotIdempotent(t *testing.T) {
	a := NewAccumulator()
	a.OnSent()
	_ = a.OnReceived(time.Second)
	s1, d1 := a.Snapshot(), a.Delays()
	s2, d2 := a.Snapshot(), a.Delays()
	if s1 != s2 || !slices.Equal(d1, d2) {
		t.Fatalf("repeated reads differ: %+v/%v vs %+v/%v", s1, d1, s2, d2)
	}
}

func TestAccumulatorDelaysIsCopy(t *testing.T) {
	a := NewAccumulator()
	a.OnSent()
	_ = a.OnReceived(time.Second)
	d := a.Delays()
	d[0] = 0
	if a.Delays()[0] != time.Second {
		t.Fatalf("caller mutated accumulator state")
	}
}

func TestAccumulatorReportsInvariantViolation(t *testing.T) {
	a := NewAccumulator()
	err := a.OnReceived(time.Second)
	if !errors.Is(err, ErrCounterInvariant) {
		t.Fatalf("err = %v, want ErrCounterInvariant", err)
	}
	if a.Snapshot().Received != 1 || len(a.Delays()) != 1 {
		t.Fatalf("violation was masked: %+v", a.Snapshot())
	}
}
