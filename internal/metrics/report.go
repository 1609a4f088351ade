package metrics

import (
	"iter"
	"math"
	"time"
)

// DeliveryRatio returns received/sent, or NaN when nothing was sent.
func DeliveryRatio(sent, received int64) float64 {
	if sent == 0 {
		return math.NaN()
	}
	return float64(received) / float64(sent)
}

// AverageDelay returns the arithmetic mean of delays, or zero when empty.
func AverageDelay(delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range delays {
		total += d
	}
	return total / time.Duration(len(delays))
}

// PerPacket yields 1-indexed (index, delay in seconds) pairs in observation order.
func PerPacket(delays []time.Duration) iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for i, d := range delays {
			if !yield(i+1, d.Seconds()) {
				return
			}
		}
	}
}

// Reduce turns the final state of a run into a Summary.
func Reduce(runID string, c Counters, delays []time.Duration, unresolved []PacketID, a Anomalies) Summary {
	return Summary{
		RunID:         runID,
		Sent:          c.Sent,
		Received:      c.Received,
		Lost:          c.Sent - c.Received,
		DeliveryRatio: DeliveryRatio(c.Sent, c.Received),
		AverageDelay:  AverageDelay(delays),
		Delays:        delays,
		Unresolved:    unresolved,
		Anomalies:     a,
	}
}
