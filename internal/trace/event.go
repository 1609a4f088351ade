// Raw packet events exchanged with the event source
package trace

import "time"

// Kind tells a transmission event from a reception event.
type Kind string

const (
	KindTransmission Kind = "tx"
	KindReception    Kind = "rx"
)

// Event is one raw notification as recorded in a JSONL trace.
// At is simulated time since the start of the run.
type Event struct {
	RunID    string        `json:"run_id,omitempty"`
	Kind     Kind          `json:"kind"`
	PacketID uint64        `json:"packet_id"`
	NodeID   uint32        `json:"node_id"`
	At       time.Duration `json:"at_ns"`
}
