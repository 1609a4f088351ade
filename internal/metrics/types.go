// Packet lifecycle types shared by the correlator, accumulator and reducer
package metrics

import (
	"errors"
	"time"
)

// PacketID is the unique identifier the transmission layer assigns to a packet.
type PacketID uint64

// TransmissionRecord is a pending transmission waiting for its reception.
// SentAt is simulated time measured from the start of the run.
type TransmissionRecord struct {
	ID     PacketID
	SentAt time.Duration
}

// Counters holds the running send/receive totals of a run.
type Counters struct {
	Sent     int64 `json:"sent"`
	Received int64 `json:"received"`
}

// Anomalies counts events that could not be reconciled into a send/receive pair.
type Anomalies struct {
	Duplicates     int64 `json:"duplicates"`
	Unmatched      int64 `json:"unmatched"`
	NegativeDelays int64 `json:"negative_delays"`
}

// Total returns the number of anomalous events of any kind.
func (a Anomalies) Total() int64 {
	return a.Duplicates + a.Unmatched + a.NegativeDelays
}

// Kind classifies the state transition caused by one event.
type Kind int

const (
	KindPending Kind = iota
	KindDuplicate
	KindDelivered
	KindUnmatched
	KindNegativeDelay
)

func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindDuplicate:
		return "duplicate"
	case KindDelivered:
		return "delivered"
	case KindUnmatched:
		return "unmatched"
	case KindNegativeDelay:
		return "negative_delay"
	default:
		return "unknown"
	}
}

// Anomalous reports whether the transition is one of the anomaly kinds.
func (k Kind) Anomalous() bool {
	return k == KindDuplicate || k == KindUnmatched || k == KindNegativeDelay
}

// Transition is the result of feeding one transmission or reception event.
// Delay is only meaningful for KindDelivered and KindNegativeDelay.
type Transition struct {
	ID    PacketID
	Kind  Kind
	At    time.Duration
	Delay time.Duration
}

// Progress is a mid-run view of the collector state.
type Progress struct {
	SimTime   time.Duration `json:"sim_time_ns"`
	Counters  Counters      `json:"counters"`
	Anomalies Anomalies     `json:"anomalies"`
	Pending   int           `json:"pending"`
}

// Summary is the reduced report of a finished run.
// DeliveryRatio is NaN when nothing was sent.
type Summary struct {
	RunID         string
	Sent          int64
	Received      int64
	Lost          int64
	DeliveryRatio float64
	AverageDelay  time.Duration
	Delays        []time.Duration
	Unresolved    []PacketID
	Anomalies     Anomalies
}

var (
	// ErrDuplicateIdentifier is returned when a transmission reuses a pending id.
	ErrDuplicateIdentifier = errors.New("duplicate packet identifier")
	// ErrUnmatchedReception is returned when no transmission is pending for a reception.
	ErrUnmatchedReception = errors.New("reception without pending transmission")
	// ErrNegativeDelay is returned when a reception precedes its transmission.
	ErrNegativeDelay = errors.New("reception precedes transmission")
	// ErrCounterInvariant is returned when more receptions than transmissions are counted.
	ErrCounterInvariant = errors.New("received count exceeds sent count")
)
