package metrics

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Collector owns the per-run correlation table, counters and anomaly counts.
// It is created at scenario start, fed through Transmitted and Received, and
// reduced with Summary once the event source has stopped.
type Collector struct {
	mu        sync.Mutex
	corr      *Correlator
	acc       *Accumulator
	anomalies Anomalies
	lastAt    time.Duration
	log       *slog.Logger
}

// NewCollector creates an empty collector. A nil logger falls back to slog.Default().
func NewCollector(log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		corr: NewCorrelator(),
		acc:  NewAccumulator(),
		log:  log,
	}
}

// Transmitted records a transmission of id at simulated time at.
func (c *Collector) Transmitted(id PacketID, at time.Duration) Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe(at)

	c.acc.OnSent()
	tr := Transition{ID: id, Kind: KindPending, At: at}
	if err := c.corr.RecordTransmission(id, at); err != nil {
		c.anomalies.Duplicates++
		tr.Kind = KindDuplicate
		c.log.Warn("overwriting pending transmission", "packet_id", uint64(id), "at", at, "err", err)
	}
	return tr
}

// Received matches a reception of id at simulated time at against its transmission.
// Only KindDelivered transitions reach the counters and the delay samples.
func (c *Collector) Received(id PacketID, at time.Duration) Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observe(at)

	tr := Transition{ID: id, At: at}
	delay, err := c.corr.ResolveReception(id, at)
	switch {
	case errors.Is(err, ErrUnmatchedReception):
		c.anomalies.Unmatched++
		tr.Kind = KindUnmatched
		c.log.Warn("unmatched reception", "packet_id", uint64(id), "at", at)
		return tr
	case errors.Is(err, ErrNegativeDelay):
		c.anomalies.NegativeDelays++
		tr.Kind = KindNegativeDelay
		tr.Delay = delay
		c.log.Warn("negative delay", "packet_id", uint64(id), "at", at, "delay", delay)
		return tr
	}

	tr.Kind = KindDelivered
	tr.Delay = delay
	if err := c.acc.OnReceived(delay); err != nil {
		c.log.Error("counter invariant violated", "packet_id", uint64(id), "err", err)
	}
	c.log.Debug("packet delivered", "packet_id", uint64(id), "delay_s", delay.Seconds())
	return tr
}

func (c *Collector) observe(at time.Duration) {
	if at > c.lastAt {
		c.lastAt = at
	}
}

// Progress returns a snapshot safe to take at any point of the run.
func (c *Collector) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Progress{
		SimTime:   c.lastAt,
		Counters:  c.acc.Snapshot(),
		Anomalies: c.anomalies,
		Pending:   c.corr.Pending(),
	}
}

// Summary reduces the collected state. Pending transmissions are reported as
// unresolved and left in place.
func (c *Collector) Summary(runID string) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Reduce(runID, c.acc.Snapshot(), c.acc.Delays(), c.corr.DrainUnresolved(), c.anomalies)
}
