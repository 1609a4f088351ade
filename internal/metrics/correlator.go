package metrics

import (
	"fmt"
	"slices"
	"time"
)

// Correlator matches receptions against pending transmissions by packet id.
// It is not safe for concurrent use; Collector serialises access.
type Correlator struct {
	pending map[PacketID]TransmissionRecord
}

// NewCorrelator returns an empty correlator.
func NewCorrelator() *Correlator {
	return &Correlator{pending: make(map[PacketID]TransmissionRecord)}
}

// RecordTransmission stores the send time of id. A pending record for the same id
// is overwritten and ErrDuplicateIdentifier is returned.
func (c *Correlator) RecordTransmission(id PacketID, at time.Duration) error {
	_, dup := c.pending[id]
	c.pending[id] = TransmissionRecord{ID: id, SentAt: at}
	if dup {
		return fmt.Errorf("%w: packet %d", ErrDuplicateIdentifier, id)
	}
	return nil
}

// ResolveReception removes the pending record of id and returns the delay.
// The record is consumed even when the delay is negative; the negative value is
// returned together with ErrNegativeDelay.
func (c *Correlator) ResolveReception(id PacketID, at time.Duration) (time.Duration, error) {
	rec, ok := c.pending[id]
	if !ok {
		return 0, fmt.Errorf("%w: packet %d", ErrUnmatchedReception, id)
	}
	delete(c.pending, id)
	delay := at - rec.SentAt
	if delay < 0 {
		return delay, fmt.Errorf("%w: packet %d by %s", ErrNegativeDelay, id, -delay)
	}
	return delay, nil
}

// DrainUnresolved lists the ids that were sent but never matched, ascending.
// The table is left untouched.
func (c *Correlator) DrainUnresolved() []PacketID {
	ids := make([]PacketID, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Pending returns the number of transmissions still waiting for a reception.
func (c *Correlator) Pending() int {
	return len(c.pending)
}
