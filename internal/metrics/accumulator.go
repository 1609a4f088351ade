package metrics

import (
	"fmt"
	"slices"
	"time"
)

// Accumulator keeps the send/receive counters and the observed delays.
type Accumulator struct {
	counters Counters
	delays   []time.Duration
}

// NewAccumulator returns a zeroed accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// OnSent counts one transmission event.
func (a *Accumulator) OnSent() {
	a.counters.Sent++
}

// OnReceived counts one correlated reception and appends its delay.
// The sample is always recorded; ErrCounterInvariant flags an adapter wiring bug.
func (a *Accumulator) OnReceived(delay time.Duration) error {
	a.counters.Received++
	a.delays = append(a.delays, delay)
	if a.counters.Received > a.counters.Sent {
		return fmt.Errorf("%w: received %d, sent %d", ErrCounterInvariant, a.counters.Received, a.counters.Sent)
	}
	return nil
}

// Snapshot returns the current counters.
func (a *Accumulator) Snapshot() Counters {
	return a.counters
}

// Delays returns a copy of the delays in observation order.
func (a *Accumulator) Delays() []time.Duration {
	return slices.Clone(a.delays)
}
